package lists

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vx-labs/roster/roster"
	"github.com/vx-labs/roster/selector"
)

func TestParseHosts(t *testing.T) {
	clients, servers, err := ParseHosts("localhost,1.2.3.4:2222/c,foo.net/s", 3500)
	require.NoError(t, err)
	assert.Equal(t, []roster.Host{"localhost:3500", "1.2.3.4:2222"}, clients)
	assert.Equal(t, []roster.Host{"localhost:3500", "foo.net:3500"}, servers)

	t.Run("errors", func(t *testing.T) {
		for _, spec := range []string{"host/x", "host/c/s", "", "host,,other", "host:port"} {
			_, _, err := ParseHosts(spec, 3500)
			assert.Error(t, err, spec)
		}
	})
}

func TestLists(t *testing.T) {
	l := New()
	assert.Equal(t, "warning", l.Health())
	_, err := l.SomeServer()
	assert.True(t, errors.Is(err, selector.ErrEmptyCluster))
	assert.Contains(t, err.Error(), "no servers in cluster")

	l.SetMembers([]roster.Host{"h1", "h2"}, []roster.Host{"h2", "h3"})
	assert.Equal(t, []roster.Host{"h1", "h2", "h3"}, l.Machines())
	assert.Equal(t, "ok", l.Health())

	servers, err := l.SomeServers(3)
	require.NoError(t, err)
	assert.Equal(t, []roster.Host{"h2", "h3", "h2"}, servers)
	clients, err := l.SomeClients(3)
	require.NoError(t, err)
	assert.Equal(t, []roster.Host{"h1", "h2", "h1"}, clients)

	t.Run("overwrite wraps cursors", func(t *testing.T) {
		l.SetMembers([]roster.Host{"h9"}, nil)
		host, err := l.SomeClient()
		require.NoError(t, err)
		assert.Equal(t, roster.Host("h9"), host)
		_, err = l.SomeServer()
		assert.True(t, errors.Is(err, selector.ErrEmptyCluster))
	})
	t.Run("lists are copied", func(t *testing.T) {
		clients := []roster.Host{"a"}
		l.SetMembers(clients, clients)
		clients[0] = "b"
		assert.Equal(t, []roster.Host{"a"}, l.Clients())
		out := l.Servers()
		out[0] = "c"
		assert.Equal(t, []roster.Host{"a"}, l.Servers())
	})
}

func TestLists_NonPositiveCount(t *testing.T) {
	l := New()
	l.SetMembers([]roster.Host{"h1"}, []roster.Host{"h1"})
	servers, err := l.SomeServers(-3)
	require.NoError(t, err)
	assert.Empty(t, servers)
	clients, err := l.SomeClients(0)
	require.NoError(t, err)
	assert.Empty(t, clients)
}
