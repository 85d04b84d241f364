package membership

import (
	"context"
	"math/rand"
	"sync"

	proto "github.com/gogo/protobuf/proto"
	"github.com/vx-labs/roster/roster"
	"github.com/vx-labs/roster/rpc"
	"github.com/vx-labs/roster/rpc/pb"
	"github.com/vx-labs/roster/selector"
	"go.uber.org/zap"
)

// Node is the local view of the cluster: it owns the roster, propagates membership changes to
// the other members, and selects peers to dispatch work on.
type Node struct {
	executor    rpc.Executor
	roster      *roster.Roster
	selector    *selector.Selector
	logger      *zap.Logger
	propagation sync.Mutex
	rngMtx      sync.Mutex
	rng         *rand.Rand
}

var _ selector.Picker = &Node{}

func New(executor rpc.Executor, logger *zap.Logger) *Node {
	r := roster.New()
	host := string(executor.CurrentHost())
	n := &Node{
		executor: executor,
		roster:   r,
		selector: selector.New(r),
		logger:   logger.With(zap.String("host", host)),
		rng:      rand.New(rand.NewSource(1)),
	}
	r.OnChange(func(ev roster.Event) {
		n.logger.Info("member "+ev.Kind.String(), zap.Stringer("member", ev.Member))
		eventsCounter.WithLabelValues(host, ev.Kind.String()).Inc()
		membersGauge.WithLabelValues(host).Set(float64(r.Len()))
	})
	return n
}

func (n *Node) Roster() *roster.Roster {
	return n.roster
}
func (n *Node) Self() roster.Host {
	return n.executor.CurrentHost()
}

// Join asks existing, a known member of the cluster, to add this node with the given role.
// The existing member notifies every other member, and tells this node about them.
func (n *Node) Join(ctx context.Context, role roster.Role, existing roster.Host) error {
	self := roster.Member{Host: n.Self(), Role: role}
	n.logger.Info("joining cluster", zap.Stringer("role", role), zap.String("existing_member", string(existing)))
	return n.executor.Invoke(ctx, existing, AnnounceJoin, memberArgs(self))
}

// JoinSelf adds this node to its own roster, and notifies the members it already knows about.
// It is used by the first member of a cluster.
func (n *Node) JoinSelf(ctx context.Context, role roster.Role) error {
	n.logger.Info("joining cluster as first member", zap.Stringer("role", role))
	return n.newMember(ctx, roster.Member{Host: n.Self(), Role: role})
}

// newMember adds m to the roster, then tells every member about m, and m about every member.
// m is part of the iterated snapshot, and will be told about itself.
// Messages are not bound to the deadline of ctx: each one is bounded by the executor call timeout,
// and a slow member does not prevent the following messages from being sent.
func (n *Node) newMember(ctx context.Context, m roster.Member) error {
	n.propagation.Lock()
	defer n.propagation.Unlock()
	n.roster.Upsert(m)
	f := n.fanout(context.WithoutCancel(ctx))
	for _, peer := range n.roster.Snapshot() {
		f.send(peer.Host, AddMember, memberArgs(m))
		f.send(m.Host, AddMember, memberArgs(peer))
	}
	return f.err
}

// Leave tells every known member to forget about this node, then clears the local roster.
func (n *Node) Leave(ctx context.Context) error {
	n.propagation.Lock()
	defer n.propagation.Unlock()
	self := n.Self()
	n.logger.Info("leaving cluster")
	f := n.fanout(ctx)
	for _, peer := range n.roster.Snapshot() {
		f.send(peer.Host, RemoveMember, &pb.HostArgs{Host: string(self)})
	}
	n.roster.Clear()
	membersGauge.WithLabelValues(string(self)).Set(0)
	return f.err
}

// SeedRandom resets the random number generator of every member with the given seed.
func (n *Node) SeedRandom(ctx context.Context, seed int64) error {
	self := n.Self()
	f := n.fanout(ctx)
	hosts := n.roster.Hosts()
	seeded := false
	for _, host := range hosts {
		if host == self {
			seeded = true
		}
		f.send(host, SetRandomSeed, &pb.SeedArgs{Seed: seed})
	}
	if !seeded {
		n.Seed(seed)
	}
	return f.err
}

// Seed resets the local random number generator. The same seed produces the same sequence.
func (n *Node) Seed(seed int64) {
	n.rngMtx.Lock()
	defer n.rngMtx.Unlock()
	n.logger.Debug("random generator seeded", zap.Int64("seed", seed))
	n.rng = rand.New(rand.NewSource(seed))
}

// Intn returns a pseudo-random number in [0,max) from the node generator.
func (n *Node) Intn(max int) int {
	n.rngMtx.Lock()
	defer n.rngMtx.Unlock()
	return n.rng.Intn(max)
}

// Health is "critical" when this node is not part of its own roster, "warning" when it is alone.
func (n *Node) Health() string {
	if _, ok := n.roster.Get(n.Self()); !ok {
		return "critical"
	}
	if n.roster.Len() < 2 {
		return "warning"
	}
	return "ok"
}

func (n *Node) Members() roster.MemberSet {
	return n.roster.Snapshot()
}
func (n *Node) Hosts() []roster.Host {
	return n.roster.Hosts()
}
func (n *Node) Clients() []roster.Host {
	return n.roster.Clients()
}
func (n *Node) Servers() []roster.Host {
	return n.roster.Servers()
}

func (n *Node) SomeServer() (roster.Host, error) {
	return n.selector.SomeServer()
}
func (n *Node) SomeClient() (roster.Host, error) {
	return n.selector.SomeClient()
}
func (n *Node) SomeServers(count int) ([]roster.Host, error) {
	return n.selector.SomeServers(count)
}
func (n *Node) SomeClients(count int) ([]roster.Host, error) {
	return n.selector.SomeClients(count)
}

// fanout sends independent messages, keeping the first error encountered.
type fanout struct {
	ctx  context.Context
	node *Node
	err  error
}

func (n *Node) fanout(ctx context.Context) *fanout {
	return &fanout{ctx: ctx, node: n}
}

func (f *fanout) send(host roster.Host, procedure string, args proto.Message) {
	f.node.logger.Debug("sending membership message",
		zap.String("procedure", procedure), zap.String("target", string(host)), zap.Stringer("args", args))
	err := f.node.executor.Invoke(f.ctx, host, procedure, args)
	if err != nil {
		failuresCounter.WithLabelValues(string(f.node.Self()), procedure).Inc()
		f.node.logger.Warn("failed to deliver membership message",
			zap.String("procedure", procedure), zap.String("target", string(host)), zap.Error(err))
		if f.err == nil {
			f.err = err
		}
	}
}
