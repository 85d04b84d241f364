package routines

import (
	"github.com/pkg/errors"
	"github.com/vx-labs/roster/roster"
)

func errUnexpectedReply(host roster.Host, payload string) error {
	return errors.Errorf("unexpected echo reply from %s: %q", host, payload)
}
