package selector

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/vx-labs/roster/roster"
)

var (
	// ErrEmptyCluster is returned when a selection is attempted on a cluster without any member.
	ErrEmptyCluster = errors.New("empty cluster")
	// ErrNoMatchingMember is returned when no member of a non-empty cluster has the requested role.
	ErrNoMatchingMember = errors.New("no matching member")
)

// Picker hands out cluster hosts to dispatch work on.
type Picker interface {
	SomeServer() (roster.Host, error)
	SomeClient() (roster.Host, error)
	SomeServers(n int) ([]roster.Host, error)
	SomeClients(n int) ([]roster.Host, error)
}

// Source provides the ordered members a Selector cycles through.
type Source interface {
	Snapshot() roster.MemberSet
}

type cursor struct {
	name  string
	match func(roster.Member) bool
	next  int
}

// Selector cycles through the members of a roster in round-robin order, filtered by role.
// Servers and clients have independent cursors.
type Selector struct {
	source  Source
	mtx     sync.Mutex
	servers cursor
	clients cursor
}

var _ Picker = &Selector{}

func New(source Source) *Selector {
	return &Selector{
		source:  source,
		servers: cursor{name: "servers", match: roster.IsServer},
		clients: cursor{name: "clients", match: roster.IsClient},
	}
}

func (s *Selector) pick(c *cursor) (roster.Host, error) {
	members := s.source.Snapshot()
	s.mtx.Lock()
	defer s.mtx.Unlock()
	count := len(members)
	if count == 0 {
		return "", errors.Wrapf(ErrEmptyCluster, "no %s in cluster", c.name)
	}
	if c.next >= count {
		c.next = 0
	}
	for step := 0; step < count; step++ {
		idx := (c.next + step) % count
		if c.match(members[idx]) {
			c.next = idx + 1
			return members[idx].Host, nil
		}
	}
	return "", errors.Wrapf(ErrNoMatchingMember, "no %s in cluster", c.name)
}

// SomeServer returns the next member accepting work, whose role is Server or Both.
func (s *Selector) SomeServer() (roster.Host, error) {
	return s.pick(&s.servers)
}

// SomeClient returns the next member issuing work, whose role is Client or Both.
func (s *Selector) SomeClient() (roster.Host, error) {
	return s.pick(&s.clients)
}

func (s *Selector) SomeServers(n int) ([]roster.Host, error) {
	return Repeat(n, s.SomeServer)
}
func (s *Selector) SomeClients(n int) ([]roster.Host, error) {
	return Repeat(n, s.SomeClient)
}

// Repeat calls f n times and returns its results in call order. It stops on the first error.
// A negative or zero n returns an empty list without calling f.
func Repeat(n int, f func() (roster.Host, error)) ([]roster.Host, error) {
	if n <= 0 {
		return []roster.Host{}, nil
	}
	out := make([]roster.Host, 0, n)
	for i := 0; i < n; i++ {
		host, err := f()
		if err != nil {
			return nil, err
		}
		out = append(out, host)
	}
	return out, nil
}
