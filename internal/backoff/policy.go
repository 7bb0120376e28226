// Package backoff provides the retry policy used by the blocking clients
// that call other shopkeeper services.
package backoff

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"
)

// Policy describes a deterministic exponential retry schedule. The delay
// before retry n (0-based) is min(Cap, BaseDelay * Multiplier * 2^n).
// There is no jitter.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  float64
	Cap         time.Duration
}

// Default is three attempts waiting 1s and then 2s.
func Default() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		Multiplier:  1,
		Cap:         10 * time.Second,
	}
}

// ErrExhausted wraps the last error once all attempts have failed.
var ErrExhausted = errors.New("retry attempts exhausted")

// Permanent marks an error that must not be retried.
type permanent struct{ err error }

func (p *permanent) Error() string { return p.err.Error() }
func (p *permanent) Unwrap() error { return p.err }

func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanent{err: err}
}

func (p Policy) attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

func (p Policy) base() time.Duration {
	m := p.Multiplier
	if m <= 0 {
		m = 1
	}
	d := time.Duration(float64(p.BaseDelay) * m)
	if d <= 0 {
		d = time.Nanosecond
	}
	return d
}

// backoff builds a fresh go-retry schedule; schedules are stateful and must
// not be shared between calls.
func (p Policy) backoff() retry.Backoff {
	b := retry.NewExponential(p.base())
	if p.Cap > 0 {
		b = retry.WithCappedDuration(p.Cap, b)
	}
	return retry.WithMaxRetries(uint64(p.attempts()-1), b)
}

// Delays lists the waits between attempts, in order.
func (p Policy) Delays() []time.Duration {
	b := p.backoff()
	var out []time.Duration
	for {
		d, stop := b.Next()
		if stop {
			return out
		}
		out = append(out, d)
	}
}

// Do runs fn until it succeeds, returns a Permanent error, the attempts run
// out or ctx is done. The attempt number (1-based) is passed to fn.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context, attempt int) error) error {
	attempt := 0
	var last error

	err := retry.Do(ctx, p.backoff(), func(ctx context.Context) error {
		attempt++
		err := fn(ctx, attempt)
		if err == nil {
			return nil
		}
		last = err

		var perm *permanent
		if errors.As(err, &perm) {
			return perm.err
		}
		return retry.RetryableError(err)
	})
	if err == nil {
		return nil
	}

	var perm *permanent
	switch {
	case errors.As(last, &perm):
		return perm.err
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		if last != nil {
			return errors.Join(ctx.Err(), last)
		}
		return err
	case attempt >= p.attempts():
		return errors.Join(ErrExhausted, err)
	default:
		return err
	}
}
