package rpc

import (
	"context"

	"github.com/google/btree"
	"github.com/vx-labs/roster/network"
	"github.com/vx-labs/roster/rpc/pb"
	"google.golang.org/grpc"
)

type RPCJob func(pb.ExecutorClient) error

// Pool holds the connection to one remote member.
type Pool struct {
	address string
	conn    *grpc.ClientConn
	client  pb.ExecutorClient
}

func (p *Pool) Less(remote btree.Item) bool {
	return p.address < remote.(*Pool).address
}

func (p *Pool) Call(job RPCJob) error {
	return job(p.client)
}
func (p *Pool) Cancel() {
	p.conn.Close()
}

func NewPool(ctx context.Context, addr string) (*Pool, error) {
	conn, err := grpc.DialContext(ctx, addr, network.GRPCClientOptions()...)
	if err != nil {
		return nil, err
	}
	return &Pool{
		address: addr,
		conn:    conn,
		client:  pb.NewExecutorClient(conn),
	}, nil
}
