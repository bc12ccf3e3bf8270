// Package core holds the central domain contracts of artifactup: the upload
// request/result types, transport options, the error taxonomy and the
// Registrar interface.
//
// The canonical Registrar interface lives here to avoid dependency cycles and
// keep domain contracts central. Implementation packages (HTTP client,
// in-memory fake, etc.) live in the registrar package and can be swapped
// without touching calling code.
//
// The error taxonomy mirrors the three failure classes of the pipeline:
//
//   - MaterializationError: the source could not be spooled to disk. Fatal,
//     never retried — the source may not be re-readable.
//   - TransferAttemptError: one PUT attempt failed (bad status, network
//     error, timeout). Transient, absorbed by the retry controller.
//   - RetryExhaustedError: every attempt failed. Terminal, wraps the last
//     attempt error.
package core
