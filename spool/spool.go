package spool

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"

	"github.com/hupe1980/artifactup/core"
)

// Spool is the durable local buffer holding the (possibly compressed)
// artifact bytes, materialized exactly once per upload invocation. The
// transfer executor may Open it many times; it is never re-derived from the
// original source.
type Spool struct {
	// Path of the temp file backing the spool.
	Path string

	// Size is the byte count on disk (post-compression when applicable).
	Size int64

	// Digest is the hex-encoded sha256 of the raw, pre-compression bytes.
	Digest string
}

// Materialize consumes src into a uniquely named temp file under dir
// (os.TempDir() when empty), computing the sha256 of the raw bytes in the
// same pass. Streamed sources are gzip-compressed when compress is set;
// literal sources ignore the flag.
func Materialize(src Source, dir string, compress bool) (*Spool, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, "artifactup-"+uuid.NewString())

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, &core.MaterializationError{Stage: "write", Err: err}
	}

	h := sha256.New()
	cw := &countingWriter{w: f}

	var mErr *core.MaterializationError
	switch s := src.(type) {
	case BytesSource:
		// Literal payloads bypass the gzip stage regardless of compress.
		if _, err := h.Write(s); err != nil {
			mErr = &core.MaterializationError{Stage: "read", Err: err}
			break
		}
		if _, err := cw.Write(s); err != nil {
			mErr = &core.MaterializationError{Stage: "write", Err: err}
		}

	case ReaderSource:
		mErr = drain(s.R, h, cw, compress)

	default:
		mErr = &core.MaterializationError{Stage: "read", Err: fmt.Errorf("unsupported source type %T", src)}
	}

	if mErr == nil {
		if err := f.Close(); err != nil {
			mErr = &core.MaterializationError{Stage: "write", Err: err}
		}
	} else {
		f.Close()
	}
	if mErr != nil {
		os.Remove(path)
		return nil, mErr
	}

	return &Spool{
		Path:   path,
		Size:   cw.n,
		Digest: hex.EncodeToString(h.Sum(nil)),
	}, nil
}

// drain streams r through the hash accumulator and, when compress is set,
// the gzip stage, into dst. The hash always sees the raw bytes.
func drain(r io.Reader, h io.Writer, dst io.Writer, compress bool) *core.MaterializationError {
	out := dst
	var gz *gzip.Writer
	if compress {
		gz = gzip.NewWriter(dst)
		out = gz
	}

	if _, err := io.Copy(io.MultiWriter(h, out), r); err != nil {
		if gz != nil {
			gz.Close()
		}
		stage := "read"
		var de *diskError
		if errors.As(err, &de) {
			stage = "write"
		}
		return &core.MaterializationError{Stage: stage, Err: err}
	}

	if gz != nil {
		if err := gz.Close(); err != nil {
			return &core.MaterializationError{Stage: "compress", Err: err}
		}
	}
	return nil
}

// Open re-opens the spool file for one transfer attempt. Callers own the
// returned handle and must close it when the attempt ends.
func (s *Spool) Open() (*os.File, error) {
	return os.Open(s.Path)
}

// Remove deletes the spool file. Safe to call once the invocation ends, on
// every exit path.
func (s *Spool) Remove() error {
	return os.Remove(s.Path)
}

// countingWriter counts bytes flowing to the underlying writer and tags
// write failures so drain can distinguish disk errors from source errors.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	if err != nil {
		return n, &diskError{err: err}
	}
	return n, nil
}

// diskError marks an error as originating from the disk-write stage rather
// than the source read.
type diskError struct {
	err error
}

func (e *diskError) Error() string { return e.err.Error() }
func (e *diskError) Unwrap() error { return e.err }
