package hive

import (
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	// retryInterval is the nominal delay before a failed operation is
	// re-dispatched.
	retryInterval = 200 * time.Millisecond
	// retryJitter staggers concurrent retries so a fleet of servers does not
	// hammer a recovering hive in lockstep. Effective delays land uniformly
	// in [150ms, 250ms].
	retryJitter = 50 * time.Millisecond
)

// retryPolicy produces the delay before a failed operation descriptor is
// re-dispatched. Retries are uncapped: a persistently failing hive keeps one
// pending attempt per operation alive until the process shuts down, with the
// log limiter keeping the noise down.
type retryPolicy struct {
	enabled bool
	backoff retry.Backoff
}

func newRetryPolicy(enabled bool) *retryPolicy {
	return &retryPolicy{
		enabled: enabled,
		backoff: retry.WithJitter(retryJitter, retry.NewConstant(retryInterval)),
	}
}

// NextDelay returns the jittered delay for the next attempt.
func (p *retryPolicy) NextDelay() time.Duration {
	d, _ := p.backoff.Next()
	return d
}
