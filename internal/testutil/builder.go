package testutil

import (
	"time"

	"github.com/hupe1980/artifactup/core"
)

// UploadRequestBuilder helps construct upload requests with fluent chaining
// for tests.
// Example:
//
//	req := NewUploadRequestBuilder("task-1", "0", "build.log").Header("content-type", "text/plain").Build()
type UploadRequestBuilder struct {
	req core.UploadRequest
}

// NewUploadRequestBuilder creates a builder for the given task/run/artifact
// triple with a one-hour expiry. Use chainable methods then call Build.
func NewUploadRequestBuilder(taskID, runID, name string) *UploadRequestBuilder {
	return &UploadRequestBuilder{req: core.UploadRequest{
		TaskID:       taskID,
		RunID:        runID,
		ArtifactName: name,
		Expires:      time.Now().Add(time.Hour),
		Headers:      map[string]string{},
	}}
}

// Header sets a request header (chainable).
func (b *UploadRequestBuilder) Header(key, val string) *UploadRequestBuilder {
	b.req.Headers[key] = val
	return b
}

// PutURL pre-supplies the put URL, skipping the registrar (chainable).
func (b *UploadRequestBuilder) PutURL(u string) *UploadRequestBuilder {
	b.req.PutURL = u
	return b
}

// Compress enables gzip for streamed payloads (chainable).
func (b *UploadRequestBuilder) Compress() *UploadRequestBuilder {
	b.req.Compress = true
	return b
}

// Expires overrides the expiry (chainable).
func (b *UploadRequestBuilder) Expires(at time.Time) *UploadRequestBuilder {
	b.req.Expires = at
	return b
}

// Transport sets per-request transport overrides (chainable).
func (b *UploadRequestBuilder) Transport(opts *core.TransportOptions) *UploadRequestBuilder {
	b.req.Transport = opts
	return b
}

// Build returns the assembled request.
func (b *UploadRequestBuilder) Build() core.UploadRequest {
	return b.req
}
