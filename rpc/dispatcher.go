package rpc

import (
	"context"
	"sort"
	"sync"

	proto "github.com/gogo/protobuf/proto"
	"github.com/pkg/errors"
)

var (
	ErrUnknownProcedure = errors.New("unknown procedure")
	ErrProcedureExists  = errors.New("procedure already registered")
)

// Dispatcher is the table of procedures a member accepts to run on behalf of remote members.
// Procedures must be registered before the first inbound call is served.
type Dispatcher struct {
	mtx        sync.RWMutex
	procedures map[string]Procedure
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		procedures: map[string]Procedure{},
	}
}

func (d *Dispatcher) Register(name string, procedure Procedure) error {
	if procedure.New == nil || procedure.Handler == nil {
		return errors.Errorf("invalid procedure %q: New and Handler are required", name)
	}
	d.mtx.Lock()
	defer d.mtx.Unlock()
	if _, ok := d.procedures[name]; ok {
		return errors.Wrap(ErrProcedureExists, name)
	}
	d.procedures[name] = procedure
	return nil
}

func (d *Dispatcher) Registered(name string) bool {
	d.mtx.RLock()
	defer d.mtx.RUnlock()
	_, ok := d.procedures[name]
	return ok
}

func (d *Dispatcher) Procedures() []string {
	d.mtx.RLock()
	defer d.mtx.RUnlock()
	out := make([]string, 0, len(d.procedures))
	for name := range d.procedures {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Dispatch decodes payload as the arguments of the named procedure, runs it, and returns its
// encoded reply.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, payload []byte) ([]byte, error) {
	d.mtx.RLock()
	procedure, ok := d.procedures[name]
	d.mtx.RUnlock()
	if !ok {
		return nil, errors.Wrap(ErrUnknownProcedure, name)
	}
	args := procedure.New()
	err := proto.Unmarshal(payload, args)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s arguments", name)
	}
	reply, err := procedure.Handler(ctx, args)
	if err != nil {
		return nil, err
	}
	if reply == nil {
		return nil, nil
	}
	return proto.Marshal(reply)
}
