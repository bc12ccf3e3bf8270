package spool

import "io"

// Source supplies the artifact bytes for exactly one materialization pass.
// The two implementations cover the caller-facing entry point contract:
// literal bytes and streamed payloads.
type Source interface {
	sealed()
}

// BytesSource is a literal, fully in-memory payload. It is written to the
// spool verbatim and hashed as a single unit; the compress flag does not
// apply to it.
type BytesSource []byte

func (BytesSource) sealed() {}

// ReaderSource is a streamed payload. It is consumed exactly once, with
// backpressure: materialization does not return until the reader is
// exhausted and the spool file fully flushed.
type ReaderSource struct {
	R io.Reader
}

func (ReaderSource) sealed() {}
