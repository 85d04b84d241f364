package lists

import (
	"context"

	proto "github.com/gogo/protobuf/proto"
	"github.com/pkg/errors"
	"github.com/vx-labs/roster/roster"
	"github.com/vx-labs/roster/rpc"
	"github.com/vx-labs/roster/rpc/pb"
	"go.uber.org/zap"
)

const (
	SetMembers = "cluster.setMembers"
	Load       = "cluster.load"
)

// Loader activates a named set of procedures on the local member.
// Loading the same name twice must have no additional effect.
type Loader interface {
	Load(name string) error
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(name string) error

func (f LoaderFunc) Load(name string) error {
	return f(name)
}

// Broadcaster pushes the client and server lists, computed by the cluster controller, to every
// machine of the cluster. The last list received always wins.
type Broadcaster struct {
	executor rpc.Executor
	lists    *Lists
	loader   Loader
	logger   *zap.Logger
}

func NewBroadcaster(executor rpc.Executor, lists *Lists, loader Loader, logger *zap.Logger) *Broadcaster {
	return &Broadcaster{
		executor: executor,
		lists:    lists,
		loader:   loader,
		logger:   logger.With(zap.String("host", string(executor.CurrentHost()))),
	}
}

func (b *Broadcaster) Lists() *Lists {
	return b.lists
}

// Register adds the list broadcast procedures to the dispatch table.
func (b *Broadcaster) Register(d *rpc.Dispatcher) error {
	err := d.Register(SetMembers, rpc.Procedure{
		New: func() proto.Message { return &pb.MembersArgs{} },
		Handler: func(ctx context.Context, args proto.Message) (proto.Message, error) {
			in := args.(*pb.MembersArgs)
			b.setMembers(toHosts(in.Clients), toHosts(in.Servers))
			return nil, nil
		},
	})
	if err != nil {
		return err
	}
	return d.Register(Load, rpc.Procedure{
		New: func() proto.Message { return &pb.LoadArgs{} },
		Handler: func(ctx context.Context, args proto.Message) (proto.Message, error) {
			return nil, b.load(args.(*pb.LoadArgs).Name)
		},
	})
}

func (b *Broadcaster) setMembers(clients, servers []roster.Host) {
	b.logger.Info("cluster lists updated", zap.Int("client_count", len(clients)), zap.Int("server_count", len(servers)))
	b.lists.SetMembers(clients, servers)
}

func (b *Broadcaster) load(name string) error {
	if b.loader == nil {
		return errors.Errorf("failed to load %s: no loader configured", name)
	}
	b.logger.Debug("loading procedures", zap.String("name", name))
	return b.loader.Load(name)
}

// Members sets the local lists, then sends them to every given client and server.
func (b *Broadcaster) Members(ctx context.Context, clients, servers []roster.Host) error {
	targets := union(clients, servers)
	b.setMembers(clients, servers)
	return b.broadcast(ctx, targets, SetMembers, &pb.MembersArgs{
		Clients: fromHosts(clients),
		Servers: fromHosts(servers),
	})
}

// Load activates the named procedures locally, then on every client and server.
func (b *Broadcaster) Load(ctx context.Context, name string) error {
	if err := b.load(name); err != nil {
		return err
	}
	return b.broadcast(ctx, b.lists.Machines(), Load, &pb.LoadArgs{Name: name})
}

func (b *Broadcaster) broadcast(ctx context.Context, targets []roster.Host, procedure string, args proto.Message) error {
	var firstErr error
	for _, host := range targets {
		err := b.executor.Invoke(ctx, host, procedure, args)
		if err != nil {
			b.logger.Warn("failed to broadcast", zap.String("procedure", procedure), zap.String("target", string(host)), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func toHosts(in []string) []roster.Host {
	out := make([]roster.Host, len(in))
	for idx := range in {
		out[idx] = roster.Host(in[idx])
	}
	return out
}
func fromHosts(in []roster.Host) []string {
	out := make([]string, len(in))
	for idx := range in {
		out[idx] = string(in[idx])
	}
	return out
}
