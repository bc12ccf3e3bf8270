package core

import (
	"context"
	"time"

	"github.com/hupe1980/artifactup/internal/util"
)

// StorageTypeS3 is the storage backend requested from the registrar when a
// put URL has to be minted. It is the only storage type the wire contract
// currently supports.
const StorageTypeS3 = "s3"

// DefaultContentType is used when the caller supplies neither a content-type
// header nor an explicit ContentType on the request.
const DefaultContentType = "application/octet-stream"

// UploadRequest describes a single artifact upload. The struct is treated as
// immutable by the pipeline with one exception: the Headers map receives an
// injected content-length entry once the payload size is known.
type UploadRequest struct {
	// TaskID and RunID identify the producing task run.
	TaskID string
	RunID  string

	// ArtifactName is the name under which the artifact is registered.
	ArtifactName string

	// Expires is passed to the registrar when a put URL is minted.
	Expires time.Time

	// Headers are sent verbatim on the PUT request (e.g. content-type).
	// A content-length entry is injected by the upload pipeline.
	Headers map[string]string

	// PutURL, when set, skips the registrar lookup entirely.
	PutURL string

	// Transport overrides the client's transport defaults for this upload.
	Transport *TransportOptions

	// Compress gzips streamed payloads before upload. Literal byte payloads
	// ignore this flag (see spool.Materialize).
	Compress bool
}

// ContentType returns the caller-supplied content-type header (matched
// case-insensitively), falling back to DefaultContentType.
func (r *UploadRequest) ContentType() string {
	if ct, ok := util.HeaderValue(r.Headers, "content-type"); ok && ct != "" {
		return ct
	}
	return DefaultContentType
}

// UploadResult is produced once, on terminal success.
type UploadResult struct {
	// Digest is the hex-encoded sha256 of the raw, pre-compression bytes.
	Digest string

	// Size is the byte count actually transmitted (post-compression when
	// compression was applied).
	Size int64
}

// ArtifactOptions carries the metadata the registrar needs to mint a put URL.
type ArtifactOptions struct {
	StorageType string
	Expires     time.Time
	ContentType string
}

// Registrar mints pre-signed put URLs for artifacts. Implementations must be
// safe for concurrent use; the client calls CreateArtifact only when the
// request carries no put URL of its own.
type Registrar interface {
	CreateArtifact(ctx context.Context, taskID, runID, name string, opts ArtifactOptions) (putURL string, err error)
}
