// Package retry implements the bounded retry loop around transfer attempts.
//
// The policy performs up to MaxAttempts attempts, sleeping between them with
// exponential backoff and jitter:
//
//	delay(n) = min(random(1,2) × Base × Factor^n, Cap)
//
// where n is the 1-based index of the attempt that just failed. The default
// policy uses Base=1s, Factor=1.311, Cap=30s and 10 attempts; the growth
// factor keeps the un-capped delay before the final attempt within a small
// margin of the cap.
//
// Fatal errors (see core.IsFatal) bypass the loop entirely and propagate on
// the attempt that raised them. Transient errors are swallowed until the
// attempt budget is exhausted, at which point the most recent one is wrapped
// in a core.RetryExhaustedError.
package retry
