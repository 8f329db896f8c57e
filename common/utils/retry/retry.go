package retry

import (
	"context"
	"log/slog"
	"math"
	"time"

	retrygo "github.com/avast/retry-go/v4"
)

// Policy is an exponential backoff policy: the k-th retry waits
// InitialInterval * Multiplier^(k-1), capped at MaxInterval.
type Policy struct {
	MaxAttempts     uint
	InitialInterval time.Duration
	Multiplier      float64
	MaxInterval     time.Duration

	// Timer replaces the wall clock, mostly useful in tests.
	Timer retrygo.Timer
	// OnRetry is called after every failed attempt that will be retried.
	OnRetry func(attempt uint, err error)
}

// DefaultPolicy makes up to 3 attempts waiting 2s then 4s.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:     3,
		InitialInterval: 2 * time.Second,
		Multiplier:      2,
		MaxInterval:     8 * time.Second,
	}
}

// Delay returns the wait before retry number n, n starting at 1.
func (p Policy) Delay(n uint) time.Duration {
	if n == 0 {
		n = 1
	}
	multiplier := p.Multiplier
	if multiplier < 1 {
		multiplier = 1
	}
	d := time.Duration(float64(p.InitialInterval) * math.Pow(multiplier, float64(n-1)))
	if p.MaxInterval > 0 && (d > p.MaxInterval || d < 0) {
		d = p.MaxInterval
	}
	return d
}

// Unrecoverable marks err so that Do returns it without further attempts.
func Unrecoverable(err error) error {
	return retrygo.Unrecoverable(err)
}

// Do calls fn until it succeeds, the attempts are used up, fn returns an
// unrecoverable error or ctx is done. The last error is returned as is.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts == 0 {
		attempts = 1
	}
	opts := []retrygo.Option{
		retrygo.Attempts(attempts),
		retrygo.Context(ctx),
		retrygo.LastErrorOnly(true),
		retrygo.Delay(p.InitialInterval),
		retrygo.MaxDelay(p.MaxInterval),
		retrygo.DelayType(func(n uint, _ error, _ *retrygo.Config) time.Duration {
			return p.Delay(n)
		}),
		retrygo.RetryIf(func(err error) bool {
			if !retrygo.IsRecoverable(err) {
				return false
			}
			// the caller gave up, waiting again is pointless
			return ctx.Err() == nil
		}),
		retrygo.OnRetry(func(n uint, err error) {
			// retry-go reports the final failure too, skip it
			if n+1 >= attempts {
				return
			}
			slog.WarnContext(ctx, "attempt failed, retrying",
				slog.Uint64("attempt", uint64(n+1)),
				slog.Duration("backoff", p.Delay(n+1)),
				slog.Any("error", err))
			if p.OnRetry != nil {
				p.OnRetry(n+1, err)
			}
		}),
	}
	if p.Timer != nil {
		opts = append(opts, retrygo.WithTimer(p.Timer))
	}
	return retrygo.Do(func() error {
		return fn(ctx)
	}, opts...)
}
