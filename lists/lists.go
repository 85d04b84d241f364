package lists

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
	"github.com/vx-labs/roster/roster"
	"github.com/vx-labs/roster/selector"
)

// Lists holds the client and server lists pushed by the cluster controller.
// Each list is cycled independently.
type Lists struct {
	mtx        sync.Mutex
	clients    []roster.Host
	servers    []roster.Host
	nextClient int
	nextServer int
}

var _ selector.Picker = &Lists{}

func New() *Lists {
	return &Lists{}
}

// SetMembers replaces both lists. Cursors are kept, and wrap on the next selection if needed.
func (l *Lists) SetMembers(clients, servers []roster.Host) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	l.clients = append([]roster.Host{}, clients...)
	l.servers = append([]roster.Host{}, servers...)
}

func (l *Lists) Clients() []roster.Host {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	return append([]roster.Host{}, l.clients...)
}
func (l *Lists) Servers() []roster.Host {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	return append([]roster.Host{}, l.servers...)
}

// Machines returns the sorted union of clients and servers, without duplicates.
func (l *Lists) Machines() []roster.Host {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	return union(l.clients, l.servers)
}

func union(a, b []roster.Host) []roster.Host {
	set := map[roster.Host]struct{}{}
	out := []roster.Host{}
	for _, list := range [][]roster.Host{a, b} {
		for _, host := range list {
			if _, ok := set[host]; ok {
				continue
			}
			set[host] = struct{}{}
			out = append(out, host)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (l *Lists) next(servers bool) (roster.Host, error) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	list, cursor, name := l.clients, &l.nextClient, "clients"
	if servers {
		list, cursor, name = l.servers, &l.nextServer, "servers"
	}
	if len(list) == 0 {
		return "", errors.Wrapf(selector.ErrEmptyCluster, "no %s in cluster", name)
	}
	if *cursor >= len(list) {
		*cursor = 0
	}
	host := list[*cursor]
	*cursor++
	return host, nil
}

func (l *Lists) SomeServer() (roster.Host, error) {
	return l.next(true)
}
func (l *Lists) SomeClient() (roster.Host, error) {
	return l.next(false)
}
func (l *Lists) SomeServers(n int) ([]roster.Host, error) {
	return selector.Repeat(n, l.SomeServer)
}
func (l *Lists) SomeClients(n int) ([]roster.Host, error) {
	return selector.Repeat(n, l.SomeClient)
}

// Health is "warning" until the controller pushed the member lists.
func (l *Lists) Health() string {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	if len(l.clients) == 0 && len(l.servers) == 0 {
		return "warning"
	}
	return "ok"
}
