package discovery

import (
	"context"
	"io"

	"github.com/vx-labs/roster/roster"
)

// Static returns a fixed list of members, usually given on the command line.
type Static struct {
	list []roster.Host
}

func NewStatic(list []roster.Host) *Static {
	return &Static{
		list: list,
	}
}

func (s *Static) Endpoints(ctx context.Context) ([]roster.Host, error) {
	if len(s.list) == 0 {
		return nil, io.EOF
	}
	out := make([]roster.Host, len(s.list))
	copy(out, s.list)
	return out, nil
}
