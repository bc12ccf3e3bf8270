package registrar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hupe1980/artifactup/core"
)

// DefaultRequestTimeout bounds one createArtifact call. URL minting is a
// small JSON exchange; it gets a much tighter budget than the transfer
// itself.
const DefaultRequestTimeout = 30 * time.Second

// HTTPClient is a core.Registrar backed by the artifact registrar's REST
// API. It POSTs artifact metadata and receives a pre-signed put URL.
type HTTPClient struct {
	baseURL    string
	client     *http.Client
	authHeader string
	authValue  string
}

// HTTPClientOptions configure the registrar client.
type HTTPClientOptions struct {
	// Timeout per createArtifact call. Defaults to DefaultRequestTimeout.
	Timeout time.Duration

	// AuthHeader / AuthValue are sent on every request when both are set
	// (e.g. "Authorization", "Bearer ...").
	AuthHeader string
	AuthValue  string
}

// NewHTTPClient creates a registrar client for the given base URL.
func NewHTTPClient(baseURL string, optFns ...func(o *HTTPClientOptions)) *HTTPClient {
	opts := HTTPClientOptions{Timeout: DefaultRequestTimeout}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		client:     &http.Client{Timeout: opts.Timeout},
		authHeader: opts.AuthHeader,
		authValue:  opts.AuthValue,
	}
}

type createArtifactPayload struct {
	StorageType string `json:"storageType"`
	Expires     string `json:"expires"`
	ContentType string `json:"contentType"`
}

type createArtifactResponse struct {
	PutURL string `json:"putUrl"`
}

// CreateArtifact registers the artifact and returns the minted put URL.
func (c *HTTPClient) CreateArtifact(ctx context.Context, taskID, runID, name string, opts core.ArtifactOptions) (string, error) {
	endpoint := fmt.Sprintf("%s/task/%s/runs/%s/artifacts/%s",
		c.baseURL, url.PathEscape(taskID), url.PathEscape(runID), url.PathEscape(name))

	payload, err := json.Marshal(createArtifactPayload{
		StorageType: opts.StorageType,
		Expires:     opts.Expires.UTC().Format(time.RFC3339),
		ContentType: opts.ContentType,
	})
	if err != nil {
		return "", fmt.Errorf("registrar: encode createArtifact payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("registrar: build createArtifact request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.authHeader != "" && c.authValue != "" {
		req.Header.Set(c.authHeader, c.authValue)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("registrar: createArtifact: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("registrar: createArtifact returned status %d", resp.StatusCode)
	}

	var decoded createArtifactResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("registrar: decode createArtifact response: %w", err)
	}
	if decoded.PutURL == "" {
		return "", fmt.Errorf("registrar: createArtifact response carried no putUrl")
	}
	return decoded.PutURL, nil
}
