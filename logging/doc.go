// Package logging provides a minimal logging interface and adapters for
// artifactup.
//
// The Logger interface defines the standard logging methods (Debug, Info,
// Warn, Error) that the upload pipeline uses for observability. This package
// includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//   - UploadLogger with contextual task/run/artifact helpers
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	client := artifactup.New(func(o *artifactup.Options) { o.Logger = logger })
//
// The design intentionally keeps the interface minimal to avoid vendor
// lock-in while supporting structured logging where available.
package logging
