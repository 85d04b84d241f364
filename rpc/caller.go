package rpc

import (
	"context"
	"sync"

	"github.com/google/btree"
	"github.com/pkg/errors"
)

var (
	ErrPoolNotFound = errors.New("pool not found")
)

// Caller keeps one connection pool per remote address, dialed on first use.
type Caller struct {
	pools *btree.BTree
	mutex sync.Mutex
}

func NewCaller() *Caller {
	return &Caller{
		pools: btree.New(2),
	}
}

func (c *Caller) pool(ctx context.Context, addr string) (*Pool, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	data := c.pools.Get(&Pool{address: addr})
	if data != nil {
		return data.(*Pool), nil
	}
	pool, err := NewPool(ctx, addr)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to dial %s", addr)
	}
	c.pools.ReplaceOrInsert(pool)
	return pool, nil
}

func (c *Caller) Call(ctx context.Context, addr string, job RPCJob) error {
	pool, err := c.pool(ctx, addr)
	if err != nil {
		return err
	}
	return pool.Call(job)
}

func (c *Caller) Cancel(addr string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	pool := c.pools.Delete(&Pool{address: addr})
	if pool == nil {
		return ErrPoolNotFound
	}
	pool.(*Pool).Cancel()
	return nil
}

func (c *Caller) Len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.pools.Len()
}

func (c *Caller) Close() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.pools.Ascend(func(item btree.Item) bool {
		item.(*Pool).Cancel()
		return true
	})
	c.pools.Clear(false)
}
