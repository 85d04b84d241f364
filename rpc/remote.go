package rpc

import (
	"context"
	"time"

	proto "github.com/gogo/protobuf/proto"
	"github.com/pkg/errors"
	"github.com/vx-labs/roster/roster"
	"github.com/vx-labs/roster/rpc/pb"
)

// Remote is an Executor delivering calls to remote members over gRPC.
type Remote struct {
	self    roster.Host
	caller  *Caller
	timeout time.Duration
}

var _ Executor = &Remote{}

// NewRemote returns an executor identified as self in the cluster. Each call is bounded by timeout,
// unless timeout is zero.
func NewRemote(self roster.Host, caller *Caller, timeout time.Duration) *Remote {
	return &Remote{
		self:    self,
		caller:  caller,
		timeout: timeout,
	}
}

func (r *Remote) CurrentHost() roster.Host {
	return r.self
}

func (r *Remote) Invoke(ctx context.Context, host roster.Host, procedure string, args proto.Message) error {
	return r.Call(ctx, host, procedure, args, nil)
}

func (r *Remote) Call(ctx context.Context, host roster.Host, procedure string, args proto.Message, reply proto.Message) error {
	payload, err := proto.Marshal(args)
	if err != nil {
		return errors.Wrapf(err, "failed to encode %s arguments", procedure)
	}
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	return r.caller.Call(ctx, string(host), func(client pb.ExecutorClient) error {
		out, err := client.Invoke(ctx, &pb.Call{
			Procedure: procedure,
			Payload:   payload,
		})
		if err != nil {
			return errors.Wrapf(err, "failed to invoke %s on %s", procedure, host)
		}
		if reply == nil {
			return nil
		}
		return proto.Unmarshal(out.Payload, reply)
	})
}
