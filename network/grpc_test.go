package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeepalive(t *testing.T) {
	assert.LessOrEqual(t, serverEnforcement.MinTime, clientParameters.Time)
	assert.Less(t, serverParameters.Timeout, serverParameters.Time)
	assert.Len(t, GRPCServerOptions(), 4)
	assert.Len(t, GRPCClientOptions(), 4)
}
