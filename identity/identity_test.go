package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vx-labs/roster/roster"
)

func TestIdentity(t *testing.T) {
	i := identity{
		private: &address{
			host: "127.0.0.1",
			port: 10001,
		},
		public: &address{
			host: "192.0.2.1",
			port: 10000,
		},
	}
	assert.Equal(t, "127.0.0.1", i.Private().Host())
	assert.Equal(t, "192.0.2.1", i.Public().Host())
	assert.Equal(t, roster.Host("192.0.2.1:10000"), i.Host())
	j := i.WithID("1")
	assert.Equal(t, "1", j.ID())
}

func TestNew(t *testing.T) {
	i := New("0.0.0.0", 3500, "host1", 3501)
	assert.Equal(t, roster.Host("host1:3501"), i.Host())
	assert.Equal(t, "0.0.0.0:3500", i.Private().String())
}
