package transfer

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hupe1980/artifactup/core"
	"github.com/hupe1980/artifactup/spool"
)

// Executor issues single PUT attempts over a shared HTTP client. It is safe
// for concurrent use; each upload invocation gets its own Executor built
// from the merged transport options.
type Executor struct {
	client  *http.Client
	timeout time.Duration
}

// NewExecutor builds an Executor from transport options. The per-attempt
// timeout falls back to core.DefaultAttemptTimeout when unset.
func NewExecutor(opts core.TransportOptions) (*Executor, error) {
	tr := &http.Transport{
		MaxIdleConns: opts.MaxIdleConns,
	}
	if opts.ProxyURL != "" {
		proxy, err := url.Parse(opts.ProxyURL)
		if err != nil {
			return nil, err
		}
		tr.Proxy = http.ProxyURL(proxy)
	}
	if opts.InsecureSkipVerify {
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} // #nosec G402 -- opt-in for local emulators
	}

	timeout := opts.AttemptTimeout
	if timeout <= 0 {
		timeout = core.DefaultAttemptTimeout
	}

	return &Executor{
		client:  &http.Client{Transport: tr},
		timeout: timeout,
	}, nil
}

// Attempt performs one PUT of the spool's current contents to putURL. The
// spool is re-opened per attempt so retries always transmit byte-identical
// payloads. Only a 200 response counts as success.
func (e *Executor) Attempt(ctx context.Context, putURL string, headers map[string]string, sp *spool.Spool) error {
	body, err := sp.Open()
	if err != nil {
		return &core.TransferAttemptError{Cause: core.CauseBuffer, Err: err}
	}
	defer body.Close()

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, putURL, body)
	if err != nil {
		return &core.TransferAttemptError{Cause: core.CauseNetwork, Err: err}
	}
	req.ContentLength = sp.Size
	for k, v := range headers {
		// Content length is carried on the request itself; net/http ignores
		// a manually set header for it.
		if strings.EqualFold(k, "content-length") {
			continue
		}
		req.Header.Set(k, v)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return &core.TransferAttemptError{Cause: classify(err), Err: err}
	}
	defer resp.Body.Close()

	// Drain without buffering so the connection can be reused.
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return &core.TransferAttemptError{Cause: classify(err), Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return &core.TransferAttemptError{Cause: core.CauseStatus, StatusCode: resp.StatusCode}
	}
	return nil
}

// classify maps a transport error to a transfer cause. Deadline and net
// timeouts are reported as CauseTimeout, everything else as CauseNetwork.
func classify(err error) core.TransferCause {
	if errors.Is(err, context.DeadlineExceeded) {
		return core.CauseTimeout
	}
	var nErr net.Error
	if errors.As(err, &nErr) && nErr.Timeout() {
		return core.CauseTimeout
	}
	return core.CauseNetwork
}
