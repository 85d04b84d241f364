package routines

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/vx-labs/roster/rpc"
	"github.com/vx-labs/roster/selector"
	"go.uber.org/zap"
)

var (
	ErrRoutineNotFound = errors.New("routine not found")
)

// Env is what a routine needs to dispatch work on the cluster.
type Env struct {
	Picker   selector.Picker
	Executor rpc.Executor
	Logger   *zap.Logger
}

// A Routine is a named piece of work started by the cluster controller. Its Run function may call
// procedures on other members: those procedures are declared by Register, which must run on every
// target member.
type Routine interface {
	Name() string
	Register(d *rpc.Dispatcher) error
	Run(ctx context.Context, env Env) error
}

type Registry struct {
	mtx      sync.Mutex
	routines map[string]Routine
	loaded   map[*rpc.Dispatcher]map[string]struct{}
}

func NewRegistry(routines ...Routine) *Registry {
	r := &Registry{
		routines: map[string]Routine{},
		loaded:   map[*rpc.Dispatcher]map[string]struct{}{},
	}
	for _, routine := range routines {
		r.Add(routine)
	}
	return r
}

func (r *Registry) Add(routine Routine) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.routines[routine.Name()] = routine
}

func (r *Registry) Get(name string) (Routine, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	routine, ok := r.routines[name]
	if !ok {
		return nil, errors.Wrapf(ErrRoutineNotFound, "routine %s not found, available routines are: %s",
			name, strings.Join(r.names(), ", "))
	}
	return routine, nil
}

// Names returns the sorted names of the known routines.
func (r *Registry) Names() []string {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return r.names()
}
func (r *Registry) names() []string {
	out := make([]string, 0, len(r.routines))
	for name := range r.routines {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Load registers the procedures of the named routine on d. Loading a routine twice on the same
// dispatcher has no effect.
func (r *Registry) Load(d *rpc.Dispatcher, name string) error {
	routine, err := r.Get(name)
	if err != nil {
		return err
	}
	r.mtx.Lock()
	defer r.mtx.Unlock()
	loaded, ok := r.loaded[d]
	if !ok {
		loaded = map[string]struct{}{}
		r.loaded[d] = loaded
	}
	if _, ok := loaded[name]; ok {
		return nil
	}
	if err := routine.Register(d); err != nil {
		return errors.Wrapf(err, "failed to register procedures of routine %s", name)
	}
	loaded[name] = struct{}{}
	return nil
}

// LoadAll registers the procedures of every known routine on d.
func (r *Registry) LoadAll(d *rpc.Dispatcher) error {
	for _, name := range r.Names() {
		if err := r.Load(d, name); err != nil {
			return err
		}
	}
	return nil
}

// Loader returns a function loading routines on d, suitable for the list broadcaster.
func (r *Registry) Loader(d *rpc.Dispatcher) func(name string) error {
	return func(name string) error {
		return r.Load(d, name)
	}
}

func (r *Registry) Run(ctx context.Context, name string, env Env) error {
	routine, err := r.Get(name)
	if err != nil {
		return err
	}
	env.Logger.Info("routine running", zap.String("routine", name))
	err = routine.Run(ctx, env)
	if err != nil {
		env.Logger.Error("routine failed", zap.String("routine", name), zap.Error(err))
		return errors.Wrapf(err, "routine %s failed", name)
	}
	env.Logger.Info("routine succeeded", zap.String("routine", name))
	return nil
}
