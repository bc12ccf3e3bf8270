package core

import (
	"errors"
	"fmt"
)

// TransferCause classifies why a single PUT attempt failed.
type TransferCause string

const (
	// CauseStatus: the server answered with a status code other than 200.
	CauseStatus TransferCause = "status"
	// CauseNetwork: the request never completed (dial, reset, EOF, ...).
	CauseNetwork TransferCause = "network"
	// CauseTimeout: the per-attempt timeout elapsed.
	CauseTimeout TransferCause = "timeout"
	// CauseBuffer: the spooled payload could not be re-opened or read for
	// this attempt. Still transient — materialization itself succeeded.
	CauseBuffer TransferCause = "buffer"
)

// MaterializationError reports a failure while spooling the source to disk:
// source read, compression or disk write. It is fatal — the source may not
// be re-readable, so the retry controller propagates it immediately.
type MaterializationError struct {
	// Stage names the pipe stage that failed: "read", "compress" or "write".
	Stage string
	Err   error
}

func (e *MaterializationError) Error() string {
	return fmt.Sprintf("materialization failed at %s stage: %v", e.Stage, e.Err)
}

func (e *MaterializationError) Unwrap() error { return e.Err }

// TransferAttemptError reports one failed PUT attempt. Transient: the retry
// controller swallows it (except for logging) until attempts are exhausted.
type TransferAttemptError struct {
	Cause TransferCause
	// StatusCode is set when Cause is CauseStatus.
	StatusCode int
	Err        error
}

func (e *TransferAttemptError) Error() string {
	if e.Cause == CauseStatus {
		return fmt.Sprintf("transfer attempt failed: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("transfer attempt failed (%s): %v", e.Cause, e.Err)
}

func (e *TransferAttemptError) Unwrap() error { return e.Err }

// RetryExhaustedError is the terminal failure after all attempts were
// consumed. It wraps the most recent TransferAttemptError.
type RetryExhaustedError struct {
	Attempts int
	Last     error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("upload failed after %d attempts: %v", e.Attempts, e.Last)
}

func (e *RetryExhaustedError) Unwrap() error { return e.Last }

// IsFatal reports whether err must bypass the retry loop.
func IsFatal(err error) bool {
	var m *MaterializationError
	return errors.As(err, &m)
}

// AsTransfer extracts a TransferAttemptError from err's chain, if any.
func AsTransfer(err error) (*TransferAttemptError, bool) {
	var t *TransferAttemptError
	ok := errors.As(err, &t)
	return t, ok
}
