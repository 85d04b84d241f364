package rpc

import (
	"context"

	proto "github.com/gogo/protobuf/proto"
	"github.com/vx-labs/roster/roster"
)

// Executor delivers named procedure calls to cluster members.
// Invoke and Call block until the target acknowledged the call, or the context is done.
type Executor interface {
	CurrentHost() roster.Host
	Invoke(ctx context.Context, host roster.Host, procedure string, args proto.Message) error
	Call(ctx context.Context, host roster.Host, procedure string, args proto.Message, reply proto.Message) error
}

// Handler runs a procedure. It may return a nil reply for procedures without result.
type Handler func(ctx context.Context, args proto.Message) (proto.Message, error)

// Procedure is an entry of the dispatch table: New allocates the arguments message the
// payload will be decoded into.
type Procedure struct {
	New     func() proto.Message
	Handler Handler
}
