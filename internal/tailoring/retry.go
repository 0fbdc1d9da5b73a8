package tailoring

import (
	"context"
	"time"
)

// RetryPolicy bounds the upstream call: at most MaxAttempts tries, with the
// delay doubling after each failure starting from BaseDelay. AttemptTimeout
// caps each individual attempt so a hanging call cannot defeat the ceiling.
// The policy is independent of the network call so it can be unit tested on
// its own.
type RetryPolicy struct {
	MaxAttempts    int
	BaseDelay      time.Duration
	AttemptTimeout time.Duration
}

// DefaultRetryPolicy mirrors the production settings: three attempts,
// one-second base delay, one-minute attempt timeout.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		BaseDelay:      time.Second,
		AttemptTimeout: time.Minute,
	}
}

// Backoff returns the delay before the attempt following failed attempt n
// (1-based): BaseDelay * 2^(n-1).
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	delay := p.BaseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
	}
	return delay
}

// Do runs fn until it succeeds or attempts are exhausted. Each attempt gets
// its own timeout; a cancelled context stops further attempts immediately,
// returning the context error. The returned attempt count tells the caller
// how many tries were consumed.
func (p RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context) error) (int, error) {
	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return attempt - 1, err
		}

		attemptCtx := ctx
		var cancel context.CancelFunc
		if p.AttemptTimeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, p.AttemptTimeout)
		}
		err := fn(attemptCtx)
		if cancel != nil {
			cancel()
		}
		if err == nil {
			return attempt, nil
		}
		lastErr = err

		if attempt == p.MaxAttempts {
			break
		}

		select {
		case <-time.After(p.Backoff(attempt)):
		case <-ctx.Done():
			return attempt, ctx.Err()
		}
	}
	return p.MaxAttempts, lastErr
}
