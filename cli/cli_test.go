package cli

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vx-labs/roster/lists"
	"github.com/vx-labs/roster/membership"
	"github.com/vx-labs/roster/roster"
	"github.com/vx-labs/roster/routines"
)

type staticHealth string

func (s staticHealth) Health() string { return string(s) }

func TestHealthHandler(t *testing.T) {
	for status, code := range map[string]int{
		"ok":       http.StatusOK,
		"warning":  http.StatusTooManyRequests,
		"critical": http.StatusInternalServerError,
	} {
		rec := httptest.NewRecorder()
		healthHandler(staticHealth("ok"), staticHealth(status))(rec, httptest.NewRequest("GET", "/health", nil))
		assert.Equal(t, code, rec.Code, status)
	}
}

func bootstrap(t *testing.T, join ...string) *Context {
	cmd := &cobra.Command{}
	config := viper.New()
	AddClusterFlags(cmd, config)
	config.Set("rpc-bind-address", "127.0.0.1")
	config.Set("rpc-bind-port", 0)
	config.Set("rpc-advertised-address", "127.0.0.1")
	config.Set("health-address", "127.0.0.1:0")
	config.Set("join", join)
	ctx, err := Bootstrap(cmd, config, routines.NewRegistry(&routines.Ping{}))
	require.NoError(t, err)
	require.NoError(t, ctx.Serve(ctx.Node))
	return ctx
}

func TestBootstrap(t *testing.T) {
	a := bootstrap(t)
	for _, procedure := range []string{membership.AnnounceJoin, membership.ListMembers, lists.SetMembers, lists.Load, routines.PingEcho} {
		assert.True(t, a.Dispatcher.Registered(procedure), procedure)
	}
	require.NoError(t, a.JoinCluster(context.Background()))
	assert.Equal(t, []roster.Host{a.Self}, a.Node.Hosts())

	b := bootstrap(t, string(a.Self))
	require.NoError(t, b.JoinCluster(context.Background()))
	assert.ElementsMatch(t, []roster.Host{a.Self, b.Self}, a.Node.Hosts())
	assert.ElementsMatch(t, []roster.Host{a.Self, b.Self}, b.Node.Hosts())

	b.Shutdown()
	assert.Equal(t, []roster.Host{a.Self}, a.Node.Hosts())
	assert.Empty(t, b.Node.Hosts())
	a.Shutdown()
}
