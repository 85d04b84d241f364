package membership

import (
	"context"

	proto "github.com/gogo/protobuf/proto"
	"github.com/pkg/errors"
	"github.com/vx-labs/roster/roster"
	"github.com/vx-labs/roster/rpc"
	"github.com/vx-labs/roster/rpc/pb"
)

const (
	AnnounceJoin  = "cluster.announceJoin"
	AddMember     = "cluster.addMember"
	RemoveMember  = "cluster.removeMember"
	SetRandomSeed = "cluster.setRandomSeed"
	ListMembers   = "cluster.listMembers"
)

var (
	ErrInvalidMember = errors.New("invalid member")
)

func memberArgs(m roster.Member) *pb.MemberArgs {
	return &pb.MemberArgs{Host: string(m.Host), Role: int32(m.Role)}
}

func decodeMember(args proto.Message) (roster.Member, error) {
	in := args.(*pb.MemberArgs)
	m := roster.Member{Host: roster.Host(in.Host), Role: roster.Role(in.Role)}
	if m.Host == "" {
		return m, errors.Wrap(ErrInvalidMember, "empty host")
	}
	if !m.Role.Valid() {
		return m, errors.Wrapf(ErrInvalidMember, "invalid role %d for %s", in.Role, in.Host)
	}
	return m, nil
}

// Register adds the membership procedures to the dispatch table. It must be called before the
// node starts serving inbound calls.
func (n *Node) Register(d *rpc.Dispatcher) error {
	newMember := func() proto.Message { return &pb.MemberArgs{} }
	procedures := map[string]rpc.Procedure{
		AnnounceJoin: {
			New: newMember,
			Handler: func(ctx context.Context, args proto.Message) (proto.Message, error) {
				m, err := decodeMember(args)
				if err != nil {
					return nil, err
				}
				return nil, n.newMember(ctx, m)
			},
		},
		AddMember: {
			New: newMember,
			Handler: func(ctx context.Context, args proto.Message) (proto.Message, error) {
				m, err := decodeMember(args)
				if err != nil {
					return nil, err
				}
				n.roster.Upsert(m)
				return nil, nil
			},
		},
		RemoveMember: {
			New: func() proto.Message { return &pb.HostArgs{} },
			Handler: func(ctx context.Context, args proto.Message) (proto.Message, error) {
				n.roster.Remove(roster.Host(args.(*pb.HostArgs).Host))
				return nil, nil
			},
		},
		SetRandomSeed: {
			New: func() proto.Message { return &pb.SeedArgs{} },
			Handler: func(ctx context.Context, args proto.Message) (proto.Message, error) {
				n.Seed(args.(*pb.SeedArgs).Seed)
				return nil, nil
			},
		},
		ListMembers: {
			New: func() proto.Message { return &pb.Empty{} },
			Handler: func(ctx context.Context, args proto.Message) (proto.Message, error) {
				out := &pb.MemberList{}
				for _, m := range n.roster.Snapshot() {
					out.Members = append(out.Members, memberArgs(m))
				}
				return out, nil
			},
		},
	}
	for _, name := range []string{AnnounceJoin, AddMember, RemoveMember, SetRandomSeed, ListMembers} {
		if err := d.Register(name, procedures[name]); err != nil {
			return err
		}
	}
	return nil
}
