package selector

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vx-labs/roster/roster"
)

func mixedRoster() *roster.Roster {
	r := roster.New()
	r.Upsert(roster.Member{Host: "c:1", Role: roster.Client})
	r.Upsert(roster.Member{Host: "s:1", Role: roster.Server})
	r.Upsert(roster.Member{Host: "b:1", Role: roster.Both})
	return r
}

func TestSelector_SomeServer(t *testing.T) {
	s := New(mixedRoster())
	out := []roster.Host{}
	for i := 0; i < 4; i++ {
		host, err := s.SomeServer()
		require.NoError(t, err)
		out = append(out, host)
	}
	assert.Equal(t, []roster.Host{"s:1", "b:1", "s:1", "b:1"}, out)
	for i := 0; i+1 < len(out); i++ {
		assert.ElementsMatch(t, []roster.Host{"s:1", "b:1"}, out[i:i+2])
	}
}

func TestSelector_Deterministic(t *testing.T) {
	a, err := New(mixedRoster()).SomeServers(7)
	require.NoError(t, err)
	b, err := New(mixedRoster()).SomeServers(7)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSelector_SomeClients(t *testing.T) {
	s := New(mixedRoster())
	out, err := s.SomeClients(5)
	require.NoError(t, err)
	assert.Equal(t, []roster.Host{"c:1", "b:1", "c:1", "b:1", "c:1"}, out)
}

func TestSelector_IndependentCursors(t *testing.T) {
	s := New(mixedRoster())
	server, _ := s.SomeServer()
	client, _ := s.SomeClient()
	assert.Equal(t, roster.Host("s:1"), server)
	assert.Equal(t, roster.Host("c:1"), client)
	server, _ = s.SomeServer()
	assert.Equal(t, roster.Host("b:1"), server)
}

func TestSelector_Errors(t *testing.T) {
	t.Run("empty cluster", func(t *testing.T) {
		s := New(roster.New())
		_, err := s.SomeServer()
		assert.True(t, errors.Is(err, ErrEmptyCluster))
		_, err = s.SomeClients(2)
		assert.True(t, errors.Is(err, ErrEmptyCluster))
	})
	t.Run("no matching member", func(t *testing.T) {
		r := roster.New()
		r.Upsert(roster.Member{Host: "c:1", Role: roster.Client})
		r.Upsert(roster.Member{Host: "c:2", Role: roster.Client})
		s := New(r)
		_, err := s.SomeServer()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNoMatchingMember))
		assert.Contains(t, err.Error(), "no servers in cluster")
		host, err := s.SomeClient()
		require.NoError(t, err)
		assert.Equal(t, roster.Host("c:1"), host)
	})
}

func TestSelector_ShrinkingRoster(t *testing.T) {
	r := mixedRoster()
	s := New(r)
	s.SomeServer()
	s.SomeServer()
	r.Remove("b:1")
	r.Remove("c:1")
	host, err := s.SomeServer()
	require.NoError(t, err)
	assert.Equal(t, roster.Host("s:1"), host)
}

func TestSelector_NonPositiveCount(t *testing.T) {
	s := New(mixedRoster())
	for _, n := range []int{0, -1} {
		servers, err := s.SomeServers(n)
		require.NoError(t, err)
		assert.Empty(t, servers)
		clients, err := s.SomeClients(n)
		require.NoError(t, err)
		assert.Empty(t, clients)
	}
	host, err := s.SomeServer()
	require.NoError(t, err)
	assert.Equal(t, roster.Host("s:1"), host, "cursor untouched")
}
