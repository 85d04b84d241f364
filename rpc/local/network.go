// Package local provides an in-process Executor, delivering procedure calls between members
// living in the same process. It is used to run cluster scenarios in tests.
package local

import (
	"context"
	"sync"

	proto "github.com/gogo/protobuf/proto"
	"github.com/pkg/errors"
	"github.com/vx-labs/roster/roster"
	"github.com/vx-labs/roster/rpc"
)

var (
	ErrUnreachable = errors.New("host unreachable")
)

// Network routes calls to the dispatcher of the targeted endpoint.
type Network struct {
	mtx          sync.RWMutex
	endpoints    map[roster.Host]*Endpoint
	disconnected map[roster.Host]struct{}
	calls        []Call
}

// Call records a delivered invocation.
type Call struct {
	From      roster.Host
	To        roster.Host
	Procedure string
}

func NewNetwork() *Network {
	return &Network{
		endpoints:    map[roster.Host]*Endpoint{},
		disconnected: map[roster.Host]struct{}{},
	}
}

// Endpoint returns the executor of the given host, creating it if needed.
func (n *Network) Endpoint(host roster.Host) *Endpoint {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	if e, ok := n.endpoints[host]; ok {
		return e
	}
	e := &Endpoint{
		host:       host,
		network:    n,
		dispatcher: rpc.NewDispatcher(),
	}
	n.endpoints[host] = e
	return e
}

// Disconnect makes calls targeting host fail with ErrUnreachable.
func (n *Network) Disconnect(host roster.Host) {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	n.disconnected[host] = struct{}{}
}
func (n *Network) Reconnect(host roster.Host) {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	delete(n.disconnected, host)
}

// Calls returns the invocations delivered so far.
func (n *Network) Calls() []Call {
	n.mtx.RLock()
	defer n.mtx.RUnlock()
	out := make([]Call, len(n.calls))
	copy(out, n.calls)
	return out
}

func (n *Network) route(from, to roster.Host, procedure string) (*Endpoint, error) {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	target, ok := n.endpoints[to]
	if !ok {
		return nil, errors.Wrapf(ErrUnreachable, "failed to invoke %s on %s", procedure, to)
	}
	if _, ok := n.disconnected[to]; ok {
		return nil, errors.Wrapf(ErrUnreachable, "failed to invoke %s on %s", procedure, to)
	}
	n.calls = append(n.calls, Call{From: from, To: to, Procedure: procedure})
	return target, nil
}

// Endpoint is the Executor of a member of a local Network.
type Endpoint struct {
	host       roster.Host
	network    *Network
	dispatcher *rpc.Dispatcher
}

var _ rpc.Executor = &Endpoint{}

// Dispatcher returns the procedure table serving calls targeting this endpoint.
func (e *Endpoint) Dispatcher() *rpc.Dispatcher {
	return e.dispatcher
}

func (e *Endpoint) CurrentHost() roster.Host {
	return e.host
}

func (e *Endpoint) Invoke(ctx context.Context, host roster.Host, procedure string, args proto.Message) error {
	return e.Call(ctx, host, procedure, args, nil)
}

func (e *Endpoint) Call(ctx context.Context, host roster.Host, procedure string, args proto.Message, reply proto.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target, err := e.network.route(e.host, host, procedure)
	if err != nil {
		return err
	}
	payload, err := proto.Marshal(args)
	if err != nil {
		return errors.Wrapf(err, "failed to encode %s arguments", procedure)
	}
	out, err := target.dispatcher.Dispatch(ctx, procedure, payload)
	if err != nil {
		return errors.Wrapf(err, "failed to invoke %s on %s", procedure, host)
	}
	if reply == nil {
		return nil
	}
	return proto.Unmarshal(out, reply)
}
