package marketdata

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

// RetryPolicy controls backoff for transient provider failures.
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
	MaxDelay  time.Duration
	Jitter    bool
}

// DefaultRetryPolicy returns the standard backoff schedule.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Attempts:  3,
		BaseDelay: 500 * time.Millisecond,
		MaxDelay:  10 * time.Second,
		Jitter:    true,
	}
}

// WithRetry runs fn under the policy with exponential backoff.
// ErrNoData and context cancellation are terminal: a symbol the
// provider does not know will not start existing on the next attempt.
func WithRetry(ctx context.Context, policy RetryPolicy, fn func() error) error {
	if policy.Attempts < 1 {
		policy.Attempts = 1
	}

	var lastErr error
	delay := policy.BaseDelay
	for attempt := 0; attempt < policy.Attempts; attempt++ {
		if attempt > 0 {
			d := delay
			if policy.Jitter {
				d = d/2 + time.Duration(rand.Int63n(int64(d/2)+1))
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(d):
			}
			delay *= 2
			if policy.MaxDelay > 0 && delay > policy.MaxDelay {
				delay = policy.MaxDelay
			}
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if errors.Is(lastErr, ErrNoData) || errors.Is(lastErr, context.Canceled) ||
			errors.Is(lastErr, context.DeadlineExceeded) {
			return lastErr
		}
	}
	return lastErr
}
