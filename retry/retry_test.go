package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/artifactup/core"
)

func fastPolicy(maxAttempts int) Policy {
	return Policy{
		MaxAttempts: maxAttempts,
		Base:        time.Microsecond,
		Factor:      DefaultFactor,
		Cap:         time.Millisecond,
	}
}

func TestDelay_Bounds(t *testing.T) {
	// With jitter pinned to the extremes, the delay before attempt n+1 must
	// lie in [1000×1.311^n, 2000×1.311^n] ms, capped at 30000ms.
	for n := 1; n < 10; n++ {
		low := DefaultPolicy()
		low.Rand = func() float64 { return 0 }
		high := DefaultPolicy()
		high.Rand = func() float64 { return 0.999999 }

		wantLow := time.Duration(1000 * math.Pow(1.311, float64(n)) * float64(time.Millisecond))
		if wantLow > 30*time.Second {
			wantLow = 30 * time.Second
		}
		wantHigh := time.Duration(2000 * math.Pow(1.311, float64(n)) * float64(time.Millisecond))
		if wantHigh > 30*time.Second {
			wantHigh = 30 * time.Second
		}

		assert.InDelta(t, float64(wantLow), float64(low.Delay(n)), float64(time.Microsecond), "lower bound, n=%d", n)
		assert.InDelta(t, float64(wantHigh), float64(high.Delay(n)), float64(time.Millisecond), "upper bound, n=%d", n)
		assert.LessOrEqual(t, high.Delay(n), 30*time.Second)
	}
}

func TestDelay_CapApplies(t *testing.T) {
	p := DefaultPolicy()
	p.Rand = func() float64 { return 0.999999 }

	// The un-capped delay before the final attempt (n=9, full jitter:
	// ~22.9s) stays under the cap; beyond the attempt budget the cap kicks
	// in.
	assert.Less(t, p.Delay(9), 30*time.Second)
	assert.Equal(t, 30*time.Second, p.Delay(13))
	assert.Equal(t, 30*time.Second, p.Delay(20))
}

func TestDo_FirstAttemptSucceeds(t *testing.T) {
	calls := 0
	err := fastPolicy(10).Do(context.Background(), func(attempt int) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_RecoversAfterTransientFailures(t *testing.T) {
	calls := 0
	err := fastPolicy(10).Do(context.Background(), func(attempt int) error {
		calls++
		if attempt < 4 {
			return &core.TransferAttemptError{Cause: core.CauseStatus, StatusCode: 500}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 4, calls)
}

func TestDo_Exhaustion(t *testing.T) {
	calls := 0
	err := fastPolicy(10).Do(context.Background(), func(attempt int) error {
		calls++
		return &core.TransferAttemptError{Cause: core.CauseStatus, StatusCode: 500}
	})
	require.Error(t, err)
	assert.Equal(t, 10, calls)

	var exhausted *core.RetryExhaustedError
	require.True(t, errors.As(err, &exhausted))
	assert.Equal(t, 10, exhausted.Attempts)

	// The terminal error carries the last attempt's classification.
	tErr, ok := core.AsTransfer(err)
	require.True(t, ok)
	assert.Equal(t, 500, tErr.StatusCode)
}

func TestDo_FatalBypassesRetry(t *testing.T) {
	calls := 0
	fatal := &core.MaterializationError{Stage: "read", Err: fmt.Errorf("gone")}
	err := fastPolicy(10).Do(context.Background(), func(attempt int) error {
		calls++
		return fatal
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.True(t, core.IsFatal(err))

	var exhausted *core.RetryExhaustedError
	assert.False(t, errors.As(err, &exhausted))
}

func TestDo_ContextCancelledBetweenAttempts(t *testing.T) {
	p := Policy{MaxAttempts: 10, Base: time.Hour, Factor: 1, Cap: time.Hour}
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	done := make(chan error, 1)
	go func() {
		done <- p.Do(ctx, func(attempt int) error {
			calls++
			return &core.TransferAttemptError{Cause: core.CauseNetwork, Err: fmt.Errorf("refused")}
		})
	}()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	case <-time.After(5 * time.Second):
		t.Fatal("Do did not return after cancellation")
	}
}

func TestDo_PassesAttemptNumbers(t *testing.T) {
	var seen []int
	_ = fastPolicy(3).Do(context.Background(), func(attempt int) error {
		seen = append(seen, attempt)
		return &core.TransferAttemptError{Cause: core.CauseNetwork, Err: fmt.Errorf("x")}
	})
	assert.Equal(t, []int{1, 2, 3}, seen)
}
