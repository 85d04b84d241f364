package roster

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoster(t *testing.T) {
	r := New()

	t.Run("upsert", func(t *testing.T) {
		assert.True(t, r.Upsert(Member{Host: "a:1", Role: Both}))
		assert.True(t, r.Upsert(Member{Host: "b:1", Role: Client}))
		assert.True(t, r.Upsert(Member{Host: "c:1", Role: Server}))
		assert.Equal(t, 3, r.Len())
	})
	t.Run("idempotent upsert", func(t *testing.T) {
		before := r.Snapshot()
		assert.False(t, r.Upsert(Member{Host: "b:1", Role: Client}))
		assert.Equal(t, before, r.Snapshot())
	})
	t.Run("lookup", func(t *testing.T) {
		m, ok := r.Get("c:1")
		require.True(t, ok)
		assert.Equal(t, Server, m.Role)
		_, ok = r.Get("z:1")
		assert.False(t, ok)
	})
	t.Run("roles", func(t *testing.T) {
		assert.Equal(t, []Host{"a:1", "b:1", "c:1"}, r.Hosts())
		assert.Equal(t, []Host{"a:1", "b:1"}, r.Clients())
		assert.Equal(t, []Host{"a:1", "c:1"}, r.Servers())
	})
	t.Run("role overwrite keeps position", func(t *testing.T) {
		assert.True(t, r.Upsert(Member{Host: "a:1", Role: Client}))
		assert.Equal(t, MemberSet{
			{Host: "a:1", Role: Client},
			{Host: "b:1", Role: Client},
			{Host: "c:1", Role: Server},
		}, r.Snapshot())
	})
	t.Run("remove", func(t *testing.T) {
		assert.True(t, r.Remove("b:1"))
		assert.False(t, r.Remove("b:1"))
		assert.False(t, r.Remove("unknown:1"))
		assert.Equal(t, []Host{"a:1", "c:1"}, r.Hosts())
	})
	t.Run("rejoin appends", func(t *testing.T) {
		r.Upsert(Member{Host: "b:1", Role: Both})
		assert.Equal(t, []Host{"a:1", "c:1", "b:1"}, r.Hosts())
	})
	t.Run("clear", func(t *testing.T) {
		r.Clear()
		assert.Equal(t, 0, r.Len())
		assert.Empty(t, r.Hosts())
	})
}

func TestRoster_RoleOverwrite(t *testing.T) {
	r := New()
	r.Upsert(Member{Host: "h:1", Role: Both})
	r.Upsert(Member{Host: "h:1", Role: Client})
	require.Equal(t, 1, r.Len())
	m, _ := r.Get("h:1")
	assert.Equal(t, Client, m.Role)
	assert.Empty(t, r.Servers())
}

func TestRoster_Uniqueness(t *testing.T) {
	r := New()
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 2000; i++ {
		host := Host(fmt.Sprintf("h%d:1", rng.Intn(8)))
		if rng.Intn(3) == 0 {
			r.Remove(host)
		} else {
			r.Upsert(Member{Host: host, Role: Role(rng.Intn(3))})
		}
		seen := map[Host]struct{}{}
		for _, m := range r.Snapshot() {
			_, ok := seen[m.Host]
			require.False(t, ok, "duplicate entry for %s", m.Host)
			seen[m.Host] = struct{}{}
		}
	}
}

func TestRoster_OnChange(t *testing.T) {
	r := New()
	events := []Event{}
	cancel := r.OnChange(func(ev Event) {
		events = append(events, ev)
	})
	r.Upsert(Member{Host: "a:1", Role: Both})
	r.Upsert(Member{Host: "a:1", Role: Both})
	r.Upsert(Member{Host: "a:1", Role: Server})
	r.Remove("a:1")
	r.Remove("a:1")
	assert.Equal(t, []Event{
		{Kind: Joined, Member: Member{Host: "a:1", Role: Both}},
		{Kind: Joined, Member: Member{Host: "a:1", Role: Server}},
		{Kind: Left, Member: Member{Host: "a:1", Role: Server}},
	}, events)
	cancel()
	r.Upsert(Member{Host: "b:1", Role: Both})
	assert.Len(t, events, 3)
}

func TestSnapshotIsolation(t *testing.T) {
	r := New()
	r.Upsert(Member{Host: "a:1", Role: Both})
	set := r.Snapshot()
	r.Upsert(Member{Host: "b:1", Role: Both})
	r.Remove("a:1")
	assert.Equal(t, MemberSet{{Host: "a:1", Role: Both}}, set)
}

func TestParseRole(t *testing.T) {
	for input, expected := range map[string]Role{
		"":       Both,
		"both":   Both,
		"client": Client,
		"C":      Client,
		"server": Server,
		"s":      Server,
	} {
		role, err := ParseRole(input)
		require.NoError(t, err, input)
		assert.Equal(t, expected, role, input)
	}
	_, err := ParseRole("h")
	assert.Error(t, err)
}

func TestMemberString(t *testing.T) {
	assert.Equal(t, "h:1", Member{Host: "h:1", Role: Both}.String())
	assert.Equal(t, "h:1/c", Member{Host: "h:1", Role: Client}.String())
	assert.Equal(t, "h:1/s", Member{Host: "h:1", Role: Server}.String())
}
