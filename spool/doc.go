// Package spool materializes an artifact source into a durable local buffer
// that can be re-read once per transfer attempt.
//
// Materialization is a single cooperative pass: bytes flow from the source
// through a sha256 accumulator and, for streamed sources with compression
// requested, a gzip stage, before landing in a uniquely named temp file. The
// digest always covers the raw, pre-compression bytes; the recorded size is
// the byte count actually written to disk.
//
// Literal byte sources are written verbatim and hashed as a single unit —
// the compress flag is ignored for them. Only streamed sources pass through
// the gzip stage. This asymmetry is part of the upload contract and is
// preserved deliberately.
//
// Any failure during materialization (source read, compression, disk write)
// surfaces as a core.MaterializationError and must not be retried: the
// source may not be re-readable.
package spool
