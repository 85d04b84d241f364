package roster

import (
	"sync/atomic"

	"github.com/google/uuid"
	iradix "github.com/hashicorp/go-immutable-radix"
)

type CancelFunc func()

type subscription struct {
	f func(Event)
}

// eventBus calls its subscribers synchronously, in subscription id order.
type eventBus struct {
	state atomic.Pointer[iradix.Tree]
}

func newEventBus() *eventBus {
	e := &eventBus{}
	e.state.Store(iradix.New())
	return e
}

func (e *eventBus) emit(ev Event) {
	e.state.Load().Root().Walk(func(k []byte, v interface{}) bool {
		v.(*subscription).f(ev)
		return false
	})
}

func (e *eventBus) subscribe(f func(Event)) CancelFunc {
	id := []byte(uuid.New().String())
	for {
		old := e.state.Load()
		new, _, _ := old.Insert(id, &subscription{f: f})
		if e.state.CompareAndSwap(old, new) {
			break
		}
	}
	return func() {
		for {
			old := e.state.Load()
			new, _, _ := old.Delete(id)
			if e.state.CompareAndSwap(old, new) {
				return
			}
		}
	}
}
