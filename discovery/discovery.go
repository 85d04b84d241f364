// Package discovery finds existing cluster members a starting member can join through.
package discovery

import (
	"context"
	"io"

	"github.com/cenkalti/backoff"
	"github.com/pkg/errors"
	"github.com/vx-labs/roster/roster"
	"go.uber.org/zap"
)

// Provider lists the addresses of cluster members. It returns io.EOF if there is nothing to discover.
type Provider interface {
	Endpoints(ctx context.Context) ([]roster.Host, error)
}

// Joiner tries the endpoints returned by a provider until one of them accepts the join.
type Joiner struct {
	Provider Provider
	BackOff  backoff.BackOff
	Logger   *zap.Logger
}

// Join calls try with every discovered endpoint except self, and returns the endpoint that
// succeeded. Discovery and join failures are retried following the joiner backoff policy.
// It returns io.EOF if the provider has nothing to discover: the caller is then the first member.
func (j *Joiner) Join(ctx context.Context, self roster.Host, try func(roster.Host) error) (roster.Host, error) {
	policy := j.BackOff
	if policy == nil {
		policy = backoff.NewExponentialBackOff()
	}
	logger := j.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	var joined roster.Host
	err := backoff.Retry(func() error {
		endpoints, err := j.Provider.Endpoints(ctx)
		if err == io.EOF {
			return backoff.Permanent(err)
		}
		if err != nil {
			logger.Debug("failed to discover cluster members", zap.Error(err))
			return err
		}
		candidates := 0
		var lastErr error
		for _, endpoint := range endpoints {
			if endpoint == self {
				continue
			}
			candidates++
			err := try(endpoint)
			if err == nil {
				joined = endpoint
				return nil
			}
			logger.Warn("failed to join cluster member", zap.String("member", string(endpoint)), zap.Error(err))
			lastErr = err
		}
		if candidates == 0 {
			return backoff.Permanent(io.EOF)
		}
		return lastErr
	}, backoff.WithContext(policy, ctx))
	if err == io.EOF {
		logger.Info("no cluster member discovered")
		return "", err
	}
	if err != nil {
		return "", errors.Wrap(err, "failed to join cluster")
	}
	logger.Info("cluster joined", zap.String("member", string(joined)))
	return joined, nil
}
