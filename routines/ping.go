package routines

import (
	"context"
	"time"

	proto "github.com/gogo/protobuf/proto"
	"github.com/vx-labs/roster/roster"
	"github.com/vx-labs/roster/rpc"
	"github.com/vx-labs/roster/rpc/pb"
	"go.uber.org/zap"
)

const PingEcho = "ping.echo"

// Ping sends an echo request to Count servers and Count clients picked in the cluster, and checks
// the replies.
type Ping struct {
	Count int
}

func (p *Ping) Name() string {
	return "ping"
}

func (p *Ping) Register(d *rpc.Dispatcher) error {
	return d.Register(PingEcho, rpc.Procedure{
		New: func() proto.Message { return &pb.PingArgs{} },
		Handler: func(ctx context.Context, args proto.Message) (proto.Message, error) {
			return args, nil
		},
	})
}

func (p *Ping) Run(ctx context.Context, env Env) error {
	count := p.Count
	if count < 1 {
		count = 1
	}
	servers, err := env.Picker.SomeServers(count)
	if err != nil {
		return err
	}
	clients, err := env.Picker.SomeClients(count)
	if err != nil {
		return err
	}
	for _, host := range append(servers, clients...) {
		if err := p.echo(ctx, env, host); err != nil {
			return err
		}
	}
	return nil
}

func (p *Ping) echo(ctx context.Context, env Env, host roster.Host) error {
	start := time.Now()
	out := &pb.PingArgs{}
	err := env.Executor.Call(ctx, host, PingEcho, &pb.PingArgs{
		From:    string(env.Executor.CurrentHost()),
		Payload: string(host),
	}, out)
	if err != nil {
		return err
	}
	if out.Payload != string(host) {
		return errUnexpectedReply(host, out.Payload)
	}
	env.Logger.Info("ping succeeded", zap.String("target", string(host)), zap.Duration("elapsed", time.Since(start)))
	return nil
}
