package retry

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/hupe1980/artifactup/core"
)

// Defaults of the upload retry policy. The factor is tuned so that the
// un-capped delay before the 10th attempt (1.311^9 ≈ 11.4s base, 22.8s with
// full jitter) stays within a small margin of the 30s cap.
const (
	DefaultMaxAttempts = 10
	DefaultBase        = time.Second
	DefaultFactor      = 1.311
	DefaultCap         = 30 * time.Second
)

// Operation is one transfer attempt. The 1-based attempt number is passed in
// so callers can log retries.
type Operation func(attempt int) error

// Policy describes a bounded exponential-backoff retry loop. The zero value
// is not useful; start from DefaultPolicy().
type Policy struct {
	// MaxAttempts is the total attempt budget, first attempt included.
	MaxAttempts int

	// Base is the delay unit before jitter and growth are applied.
	Base time.Duration

	// Factor is the exponential growth factor per completed attempt.
	Factor float64

	// Cap truncates the computed delay.
	Cap time.Duration

	// Rand returns a value in [0, 1). Defaults to math/rand/v2; injectable
	// for deterministic tests.
	Rand func() float64
}

// DefaultPolicy returns the tuned upload policy.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: DefaultMaxAttempts,
		Base:        DefaultBase,
		Factor:      DefaultFactor,
		Cap:         DefaultCap,
	}
}

// Delay computes the sleep before attempt n+1, where n is the 1-based index
// of the attempt that just failed: min(random(1,2) × Base × Factor^n, Cap).
func (p Policy) Delay(attempt int) time.Duration {
	random := p.Rand
	if random == nil {
		random = rand.Float64
	}
	jitter := 1 + random()
	d := time.Duration(jitter * float64(p.Base) * math.Pow(p.Factor, float64(attempt)))
	if p.Cap > 0 && d > p.Cap {
		d = p.Cap
	}
	return d
}

// Do runs op until it succeeds, raises a fatal error, or the attempt budget
// is exhausted. Intermediate transient errors are discarded; the last one is
// surfaced inside a core.RetryExhaustedError. Context cancellation between
// attempts aborts the loop with ctx.Err().
func (p Policy) Do(ctx context.Context, op Operation) error {
	var last error
	for attempt := 1; ; attempt++ {
		err := op(attempt)
		if err == nil {
			return nil
		}
		if core.IsFatal(err) {
			return err
		}
		last = err

		if attempt >= p.MaxAttempts {
			break
		}

		timer := time.NewTimer(p.Delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return &core.RetryExhaustedError{Attempts: p.MaxAttempts, Last: last}
}
