package pb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec(t *testing.T) {
	c := codec{}
	buf, err := c.Marshal(&MembersArgs{
		Clients: []string{"h1:3500", "h2:3500"},
		Servers: []string{"h2:3500"},
	})
	require.NoError(t, err)
	out := &MembersArgs{}
	require.NoError(t, c.Unmarshal(buf, out))
	assert.Equal(t, []string{"h1:3500", "h2:3500"}, out.Clients)
	assert.Equal(t, []string{"h2:3500"}, out.Servers)

	_, err = c.Marshal("not a message")
	assert.Error(t, err)
}
