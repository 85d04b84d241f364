package rpc

import (
	"context"
	"testing"

	proto "github.com/gogo/protobuf/proto"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vx-labs/roster/rpc/pb"
)

func echoProcedure() Procedure {
	return Procedure{
		New: func() proto.Message { return &pb.PingArgs{} },
		Handler: func(ctx context.Context, args proto.Message) (proto.Message, error) {
			ping := args.(*pb.PingArgs)
			return &pb.PingArgs{From: "server", Payload: ping.Payload}, nil
		},
	}
}

func TestDispatcher(t *testing.T) {
	d := NewDispatcher()
	require.NoError(t, d.Register("ping.echo", echoProcedure()))

	t.Run("duplicate registration", func(t *testing.T) {
		err := d.Register("ping.echo", echoProcedure())
		assert.True(t, errors.Is(err, ErrProcedureExists))
	})
	t.Run("invalid procedure", func(t *testing.T) {
		assert.Error(t, d.Register("invalid", Procedure{}))
		assert.False(t, d.Registered("invalid"))
	})
	t.Run("dispatch", func(t *testing.T) {
		payload, err := proto.Marshal(&pb.PingArgs{From: "client", Payload: "hello"})
		require.NoError(t, err)
		out, err := d.Dispatch(context.Background(), "ping.echo", payload)
		require.NoError(t, err)
		reply := &pb.PingArgs{}
		require.NoError(t, proto.Unmarshal(out, reply))
		assert.Equal(t, "server", reply.From)
		assert.Equal(t, "hello", reply.Payload)
	})
	t.Run("unknown procedure", func(t *testing.T) {
		_, err := d.Dispatch(context.Background(), "nope", nil)
		assert.True(t, errors.Is(err, ErrUnknownProcedure))
	})
	t.Run("procedures", func(t *testing.T) {
		require.NoError(t, d.Register("a.first", echoProcedure()))
		assert.Equal(t, []string{"a.first", "ping.echo"}, d.Procedures())
	})
}
