// Package artifactup uploads task-produced artifacts to remote object
// storage over pre-signed HTTP PUT URLs. Most applications interact with
// this package by:
//  1. Creating a Client via New() (optionally overriding the registrar,
//     logger, retry policy and transport defaults)
//  2. Invoking Upload once per artifact with a literal or streamed source
//  3. Receiving the integrity digest and transmitted size, or a classified
//     error
//
// The pipeline spools the source to a durable local buffer exactly once,
// hashing the raw bytes (and optionally gzip-compressing streamed payloads)
// in the same pass, then re-drives that buffer through a bounded
// exponential-backoff retry loop. The buffer is deleted on every exit path.
// All defaults are safe for local development and testing; production
// deployments typically supply an HTTP registrar client and a structured
// logger.
package artifactup

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/artifactup/core"
	"github.com/hupe1980/artifactup/internal/util"
	"github.com/hupe1980/artifactup/logging"
	"github.com/hupe1980/artifactup/registrar"
	"github.com/hupe1980/artifactup/retry"
	"github.com/hupe1980/artifactup/spool"
	"github.com/hupe1980/artifactup/transfer"
)

// Options configures the Client.
type Options struct {
	// Registrar mints put URLs for requests that do not carry one. Defaults
	// to an empty in-memory registrar, which is only useful when every
	// request pre-supplies its URL.
	Registrar core.Registrar

	// Logger receives structured entries for upload start, each retry and
	// any error (defaults to NoOp logger if nil).
	Logger logging.Logger

	// RetryPolicy bounds the transfer attempts.
	RetryPolicy retry.Policy

	// Transport holds the client-level transport defaults; per-request
	// overrides are merged on top.
	Transport core.TransportOptions

	// Headers are sent on every upload, underneath request headers.
	Headers map[string]string

	// SpoolDir is where durable buffers are created. Empty means the OS
	// temp directory.
	SpoolDir string
}

// Client is the upload entry point. It is safe for concurrent use: each
// Upload invocation owns an independently named spool file and shares only
// the registrar and logger, which must themselves be concurrency-safe.
type Client struct {
	opts   Options
	logger *core.LoggerAdapter
}

// New creates a Client with optional overrides.
func New(optFns ...func(o *Options)) *Client {
	opts := Options{
		Registrar:   registrar.NewInMemory(),
		Logger:      logging.NoOpLogger{},
		RetryPolicy: retry.DefaultPolicy(),
		Transport:   core.DefaultTransportOptions,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Client{opts: opts, logger: core.NewLoggerAdapter(opts.Logger)}
}

// Upload runs the full pipeline for one artifact: materialize the source
// into a durable buffer (computing size and digest), resolve the put URL via
// the registrar when none is supplied, then PUT the buffer under the retry
// policy. The buffer is removed on every exit path; a removal failure is
// logged but never masks the primary error.
//
// On success the returned result carries the hex sha256 of the raw source
// bytes and the byte count actually transmitted (post-compression when
// compression was applied).
func (c *Client) Upload(ctx context.Context, req core.UploadRequest, src spool.Source) (*core.UploadResult, error) {
	uploadID := uuid.NewString()
	start := time.Now()

	sp, err := spool.Materialize(src, c.opts.SpoolDir, req.Compress)
	if err != nil {
		c.logger.LogError("artifact materialization failed",
			"event", "upload_error", "upload_id", uploadID,
			"task_id", req.TaskID, "run_id", req.RunID, "artifact_name", req.ArtifactName,
			"err", err)
		return nil, err
	}
	defer func() {
		if rmErr := sp.Remove(); rmErr != nil {
			c.logger.LogWarn("spool cleanup failed",
				"event", "cleanup_error", "upload_id", uploadID,
				"task_id", req.TaskID, "run_id", req.RunID, "artifact_name", req.ArtifactName,
				"path", sp.Path, "err", rmErr)
		}
	}()

	// The request header map is the mutable part of the request: the
	// computed payload size is injected so the caller can observe it.
	if req.Headers == nil {
		req.Headers = map[string]string{}
	}
	req.Headers["content-length"] = strconv.FormatInt(sp.Size, 10)

	// Snapshot with client-level defaults underneath, so concurrent caller
	// mutations cannot race the attempt loop.
	headers := util.MergeHeaders(c.opts.Headers, req.Headers)

	putURL := req.PutURL
	if putURL == "" {
		if c.opts.Registrar == nil {
			return nil, fmt.Errorf("artifactup: no put url supplied and no registrar configured")
		}
		putURL, err = c.opts.Registrar.CreateArtifact(ctx, req.TaskID, req.RunID, req.ArtifactName, core.ArtifactOptions{
			StorageType: core.StorageTypeS3,
			Expires:     req.Expires,
			ContentType: req.ContentType(),
		})
		if err != nil {
			c.logger.LogError("put url resolution failed",
				"event", "upload_error", "upload_id", uploadID,
				"task_id", req.TaskID, "run_id", req.RunID, "artifact_name", req.ArtifactName,
				"err", err)
			return nil, fmt.Errorf("artifactup: resolve put url: %w", err)
		}
	}

	exec, err := transfer.NewExecutor(c.opts.Transport.Merge(req.Transport))
	if err != nil {
		return nil, fmt.Errorf("artifactup: build transport: %w", err)
	}

	c.logger.LogInfo("uploading artifact",
		"event", "upload_start", "upload_id", uploadID,
		"task_id", req.TaskID, "run_id", req.RunID, "artifact_name", req.ArtifactName,
		"put_url", putURL, "size", sp.Size, "compressed", req.Compress)

	err = c.opts.RetryPolicy.Do(ctx, func(attempt int) error {
		if attempt > 1 {
			c.logger.LogWarn("retrying artifact upload",
				"event", "upload_retry", "upload_id", uploadID,
				"task_id", req.TaskID, "run_id", req.RunID, "artifact_name", req.ArtifactName,
				"put_url", putURL, "attempt", attempt)
		}
		return exec.Attempt(ctx, putURL, headers, sp)
	})
	if err != nil {
		c.logger.LogError("artifact upload failed",
			"event", "upload_error", "upload_id", uploadID,
			"task_id", req.TaskID, "run_id", req.RunID, "artifact_name", req.ArtifactName,
			"put_url", putURL, "err", err)
		return nil, err
	}

	c.logger.LogInfo("artifact upload completed",
		"event", "upload_done", "upload_id", uploadID,
		"task_id", req.TaskID, "run_id", req.RunID, "artifact_name", req.ArtifactName,
		"digest", sp.Digest, "size", sp.Size, "duration", time.Since(start))

	return &core.UploadResult{Digest: sp.Digest, Size: sp.Size}, nil
}
