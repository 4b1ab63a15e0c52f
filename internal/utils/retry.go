// internal/utils/retry.go
package utils

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy is the one retry configuration shared by outbound gateway
// calls: a bounded number of attempts with a linearly increasing delay
// between them (base, 2*base, 3*base, ...).
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// SingleAttempt is for calls that must not be retried (QR generation,
// status checks).
var SingleAttempt = RetryPolicy{MaxAttempts: 1}

// Do runs op under the policy, stopping early when the context is done.
// backoff.Permanent errors abort without further attempts.
func (p RetryPolicy) Do(ctx context.Context, op func() error) error {
	if p.MaxAttempts <= 1 {
		return op()
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(&linearBackOff{base: p.BaseDelay}, uint64(p.MaxAttempts-1)),
		ctx,
	)
	return backoff.Retry(op, b)
}

// linearBackOff implements backoff.BackOff with a base*n schedule.
type linearBackOff struct {
	base    time.Duration
	attempt int
}

func (l *linearBackOff) NextBackOff() time.Duration {
	l.attempt++
	return time.Duration(l.attempt) * l.base
}

func (l *linearBackOff) Reset() { l.attempt = 0 }
