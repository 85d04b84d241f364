package discovery

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/cenkalti/backoff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vx-labs/roster/roster"
)

type flakyProvider struct {
	failures int
	list     []roster.Host
}

func (f *flakyProvider) Endpoints(ctx context.Context) ([]roster.Host, error) {
	if f.failures > 0 {
		f.failures--
		return nil, errors.New("discovery unavailable")
	}
	return f.list, nil
}

func retries(n uint64) backoff.BackOff {
	return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, n)
}

func TestStatic(t *testing.T) {
	_, err := NewStatic(nil).Endpoints(context.Background())
	assert.Equal(t, io.EOF, err)
	out, err := NewStatic([]roster.Host{"a:1"}).Endpoints(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []roster.Host{"a:1"}, out)
}

func TestJoiner(t *testing.T) {
	ctx := context.Background()
	t.Run("first reachable", func(t *testing.T) {
		tried := []roster.Host{}
		j := &Joiner{Provider: NewStatic([]roster.Host{"self:1", "down:1", "up:1"}), BackOff: retries(0)}
		joined, err := j.Join(ctx, "self:1", func(h roster.Host) error {
			tried = append(tried, h)
			if h == "down:1" {
				return errors.New("connection refused")
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, roster.Host("up:1"), joined)
		assert.Equal(t, []roster.Host{"down:1", "up:1"}, tried)
	})
	t.Run("nothing to discover", func(t *testing.T) {
		j := &Joiner{Provider: NewStatic(nil), BackOff: retries(5)}
		_, err := j.Join(ctx, "self:1", func(roster.Host) error { return nil })
		assert.Equal(t, io.EOF, err)
	})
	t.Run("only self", func(t *testing.T) {
		j := &Joiner{Provider: NewStatic([]roster.Host{"self:1"}), BackOff: retries(5)}
		_, err := j.Join(ctx, "self:1", func(roster.Host) error { return nil })
		assert.Equal(t, io.EOF, err)
	})
	t.Run("discovery retried", func(t *testing.T) {
		j := &Joiner{Provider: &flakyProvider{failures: 2, list: []roster.Host{"a:1"}}, BackOff: retries(3)}
		joined, err := j.Join(ctx, "self:1", func(roster.Host) error { return nil })
		require.NoError(t, err)
		assert.Equal(t, roster.Host("a:1"), joined)
	})
	t.Run("gives up", func(t *testing.T) {
		j := &Joiner{Provider: NewStatic([]roster.Host{"a:1"}), BackOff: retries(2)}
		attempts := 0
		_, err := j.Join(ctx, "self:1", func(roster.Host) error {
			attempts++
			return errors.New("connection refused")
		})
		require.Error(t, err)
		assert.Equal(t, 3, attempts)
	})
}
