package llm

import (
	"context"
	"math"
	"strings"
	"time"
)

// RetryOptions controls the retry behavior of a generation call.
// Zero values fall back to 3 retries, 1s base delay and a 2x backoff factor.
type RetryOptions struct {
	Retries int           // number of retries after the first attempt
	Delay   time.Duration // base delay before the first retry
	Backoff float64       // multiplier applied to the delay on each subsequent retry
}

func (o RetryOptions) withDefaults() RetryOptions {
	if o.Retries == 0 {
		o.Retries = 3
	}
	if o.Delay == 0 {
		o.Delay = time.Second
	}
	if o.Backoff == 0 {
		o.Backoff = 2
	}
	return o
}

// isRateLimited reports whether the error looks like an API rate limit response
func isRateLimited(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "rate")
}

// WithRetry runs fn up to opts.Retries+1 times with exponential backoff between
// attempts. Rate-limited attempts wait twice as long. The error from the last
// attempt is returned unchanged so callers can match on it.
func WithRetry[T any](ctx context.Context, opts RetryOptions, fn func(ctx context.Context) (T, error)) (T, error) {
	opts = opts.withDefaults()

	var zero T
	var lastErr error
	for attempt := 0; attempt <= opts.Retries; attempt++ {
		if attempt > 0 {
			wait := time.Duration(float64(opts.Delay) * math.Pow(opts.Backoff, float64(attempt-1)))
			if isRateLimited(lastErr) {
				wait *= 2
			}
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(wait):
			}
		}

		res, err := fn(ctx)
		if err == nil {
			return res, nil
		}
		lastErr = err

		// context errors are not recoverable, bail out early
		if ctx.Err() != nil {
			return zero, lastErr
		}
	}

	return zero, lastErr
}
