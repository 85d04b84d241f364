package roster

import (
	memdb "github.com/hashicorp/go-memdb"
)

const (
	table = "members"
)

type EventKind int

const (
	Joined EventKind = iota
	Left
)

func (k EventKind) String() string {
	if k == Left {
		return "left"
	}
	return "joined"
}

// Event describes a change applied to a Roster.
// Member.Role is meaningless for Left events.
type Event struct {
	Kind   EventKind
	Member Member
}

type record struct {
	Host string
	Role Role
	Seq  uint64
}

func (r *record) member() Member {
	return Member{Host: Host(r.Host), Role: r.Role}
}

// Roster is the local table of known cluster members.
// It holds at most one entry per host, and keeps entries in insertion order: updating the role
// of a known host does not move it.
type Roster struct {
	db     *memdb.MemDB
	seq    uint64
	events *eventBus
}

func schema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			table: {
				Name: table,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name: "id",
						Indexer: &memdb.StringFieldIndex{
							Field: "Host",
						},
						Unique:       true,
						AllowMissing: false,
					},
					"seq": {
						Name:         "seq",
						Unique:       true,
						AllowMissing: false,
						Indexer:      &memdb.UintFieldIndex{Field: "Seq"},
					},
				},
			},
		},
	}
}

func New() *Roster {
	db, err := memdb.NewMemDB(schema())
	if err != nil {
		panic(err)
	}
	return &Roster{db: db, events: newEventBus()}
}

// OnChange registers a function called each time an event modified the roster. Calling the returned
// function unregisters it.
func (r *Roster) OnChange(f func(Event)) CancelFunc {
	return r.events.subscribe(f)
}

func (r *Roster) emit(ev Event) {
	r.events.emit(ev)
}

// Upsert applies a Joined event: the role of a known host is replaced, an unknown host is appended.
// It returns true if the roster was modified.
func (r *Roster) Upsert(m Member) bool {
	changed := false
	r.write(func(tx *memdb.Txn) error {
		seq := uint64(0)
		old, err := r.first(tx, string(m.Host))
		if err == nil {
			if old.Role == m.Role {
				return errUnchanged
			}
			seq = old.Seq
		} else {
			r.seq++
			seq = r.seq
		}
		err = tx.Insert(table, &record{
			Host: string(m.Host),
			Role: m.Role,
			Seq:  seq,
		})
		if err != nil {
			return err
		}
		changed = true
		return nil
	})
	if changed {
		r.emit(Event{Kind: Joined, Member: m})
	}
	return changed
}

// Remove applies a Left event. Removing an unknown host is a no-op.
// It returns true if the roster was modified.
func (r *Roster) Remove(host Host) bool {
	var removed *record
	r.write(func(tx *memdb.Txn) error {
		old, err := r.first(tx, string(host))
		if err != nil {
			return err
		}
		err = tx.Delete(table, old)
		if err != nil {
			return err
		}
		removed = old
		return nil
	})
	if removed != nil {
		r.emit(Event{Kind: Left, Member: removed.member()})
		return true
	}
	return false
}

// Clear removes all members from the roster, without emitting any event.
func (r *Roster) Clear() {
	r.write(func(tx *memdb.Txn) error {
		_, err := tx.DeleteAll(table, "id")
		return err
	})
}

func (r *Roster) Get(host Host) (Member, bool) {
	var out Member
	err := r.read(func(tx *memdb.Txn) error {
		rec, err := r.first(tx, string(host))
		if err != nil {
			return err
		}
		out = rec.member()
		return nil
	})
	return out, err == nil
}

// Snapshot returns a copy of the members, in insertion order.
// Later modifications of the roster are not reflected in the returned set.
func (r *Roster) Snapshot() MemberSet {
	set := MemberSet{}
	r.read(func(tx *memdb.Txn) error {
		iterator, err := tx.Get(table, "seq")
		if err != nil || iterator == nil {
			return err
		}
		for {
			payload := iterator.Next()
			if payload == nil {
				return nil
			}
			set = append(set, payload.(*record).member())
		}
	})
	return set
}

func (r *Roster) Len() int {
	return len(r.Snapshot())
}

// HostsWithRole returns the hosts of the members accepted by the given predicate, in roster order.
func (r *Roster) HostsWithRole(predicate func(Member) bool) []Host {
	return r.Snapshot().Filter(predicate).Hosts()
}

func (r *Roster) Hosts() []Host {
	return r.HostsWithRole(Any)
}
func (r *Roster) Clients() []Host {
	return r.HostsWithRole(IsClient)
}
func (r *Roster) Servers() []Host {
	return r.HostsWithRole(IsServer)
}

func (r *Roster) first(tx *memdb.Txn, host string) (*record, error) {
	data, err := tx.First(table, "id", host)
	if err != nil || data == nil {
		return nil, ErrMemberNotFound
	}
	return data.(*record), nil
}

func (r *Roster) read(statement func(tx *memdb.Txn) error) error {
	tx := r.db.Txn(false)
	return r.run(tx, statement)
}
func (r *Roster) write(statement func(tx *memdb.Txn) error) error {
	tx := r.db.Txn(true)
	return r.run(tx, statement)
}
func (r *Roster) run(tx *memdb.Txn, statement func(tx *memdb.Txn) error) error {
	defer tx.Abort()
	err := statement(tx)
	if err != nil {
		return err
	}
	tx.Commit()
	return nil
}
