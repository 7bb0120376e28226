package backoff

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fast(attempts int) Policy {
	return Policy{MaxAttempts: attempts, BaseDelay: time.Millisecond, Multiplier: 1, Cap: 5 * time.Millisecond}
}

func TestDefault_Schedule(t *testing.T) {
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, Default().Delays())
}

func TestDelays_CappedAndScaled(t *testing.T) {
	p := Policy{MaxAttempts: 6, BaseDelay: time.Second, Multiplier: 2, Cap: 10 * time.Second}
	assert.Equal(t, []time.Duration{
		2 * time.Second, 4 * time.Second, 8 * time.Second, 10 * time.Second, 10 * time.Second,
	}, p.Delays())

	assert.Empty(t, Policy{MaxAttempts: 1, BaseDelay: time.Second}.Delays())
	assert.Empty(t, Policy{}.Delays(), "zero policy means a single attempt")
}

func TestDo_SucceedsAfterRetries(t *testing.T) {
	calls := 0
	err := fast(3).Do(context.Background(), func(ctx context.Context, attempt int) error {
		calls++
		assert.Equal(t, calls, attempt)
		if attempt < 3 {
			return errors.New("503")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_Exhausted(t *testing.T) {
	last := errors.New("still down")
	calls := 0
	err := fast(3).Do(context.Background(), func(ctx context.Context, attempt int) error {
		calls++
		return last
	})
	require.ErrorIs(t, err, ErrExhausted)
	require.ErrorIs(t, err, last)
	assert.Equal(t, 3, calls)
}

func TestDo_PermanentStopsImmediately(t *testing.T) {
	bad := errors.New("400 bad request")
	calls := 0
	err := fast(3).Do(context.Background(), func(ctx context.Context, attempt int) error {
		calls++
		return Permanent(bad)
	})
	require.ErrorIs(t, err, bad)
	assert.NotErrorIs(t, err, ErrExhausted)
	assert.Equal(t, 1, calls)
	assert.Nil(t, Permanent(nil))
}

func TestDo_ContextCanceledDuringWait(t *testing.T) {
	p := Policy{MaxAttempts: 3, BaseDelay: time.Hour, Multiplier: 1}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	calls := 0
	start := time.Now()
	err := p.Do(ctx, func(ctx context.Context, attempt int) error {
		calls++
		return errors.New("flaky")
	})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, calls)
	assert.Less(t, time.Since(start), time.Second)
}
