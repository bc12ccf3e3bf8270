package transfer

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/artifactup/core"
	"github.com/hupe1980/artifactup/spool"
)

func materialize(t *testing.T, payload []byte) *spool.Spool {
	t.Helper()
	sp, err := spool.Materialize(spool.BytesSource(payload), t.TempDir(), false)
	require.NoError(t, err)
	t.Cleanup(func() { sp.Remove() })
	return sp
}

func newExecutor(t *testing.T, opts core.TransportOptions) *Executor {
	t.Helper()
	e, err := NewExecutor(opts)
	require.NoError(t, err)
	return e
}

func TestAttempt_Success(t *testing.T) {
	payload := []byte("hello world")

	var mu sync.Mutex
	var gotBody []byte
	var gotLength string
	var gotType string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, http.MethodPut, r.Method)
		gotBody, _ = io.ReadAll(r.Body)
		gotLength = strconv.FormatInt(r.ContentLength, 10)
		gotType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sp := materialize(t, payload)
	e := newExecutor(t, core.DefaultTransportOptions)

	headers := map[string]string{
		"content-type":   "text/plain",
		"content-length": strconv.FormatInt(sp.Size, 10),
	}
	err := e.Attempt(context.Background(), srv.URL, headers, sp)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, payload, gotBody)
	assert.Equal(t, strconv.Itoa(len(payload)), gotLength)
	assert.Equal(t, "text/plain", gotType)
}

func TestAttempt_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("storage backend unavailable"))
	}))
	defer srv.Close()

	sp := materialize(t, []byte("x"))
	e := newExecutor(t, core.DefaultTransportOptions)

	err := e.Attempt(context.Background(), srv.URL, nil, sp)
	require.Error(t, err)

	tErr, ok := core.AsTransfer(err)
	require.True(t, ok)
	assert.Equal(t, core.CauseStatus, tErr.Cause)
	assert.Equal(t, http.StatusInternalServerError, tErr.StatusCode)
	assert.False(t, core.IsFatal(err))
}

// 201 is not success: the wire contract accepts exactly 200.
func TestAttempt_CreatedIsNotSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	sp := materialize(t, []byte("x"))
	e := newExecutor(t, core.DefaultTransportOptions)

	err := e.Attempt(context.Background(), srv.URL, nil, sp)
	tErr, ok := core.AsTransfer(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusCreated, tErr.StatusCode)
}

func TestAttempt_NetworkError(t *testing.T) {
	// A closed server yields a connection error.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	sp := materialize(t, []byte("x"))
	e := newExecutor(t, core.DefaultTransportOptions)

	err := e.Attempt(context.Background(), url, nil, sp)
	require.Error(t, err)

	tErr, ok := core.AsTransfer(err)
	require.True(t, ok)
	assert.Equal(t, core.CauseNetwork, tErr.Cause)
}

func TestAttempt_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	sp := materialize(t, []byte("x"))
	opts := core.DefaultTransportOptions
	opts.AttemptTimeout = 50 * time.Millisecond
	e := newExecutor(t, opts)

	err := e.Attempt(context.Background(), srv.URL, nil, sp)
	require.Error(t, err)

	tErr, ok := core.AsTransfer(err)
	require.True(t, ok)
	assert.Equal(t, core.CauseTimeout, tErr.Cause)
}

func TestAttempt_SpoolOpenFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sp := materialize(t, []byte("x"))
	require.NoError(t, sp.Remove())

	e := newExecutor(t, core.DefaultTransportOptions)
	err := e.Attempt(context.Background(), srv.URL, nil, sp)
	require.Error(t, err)

	// Buffer errors are transfer failures, not materialization failures.
	tErr, ok := core.AsTransfer(err)
	require.True(t, ok)
	assert.Equal(t, core.CauseBuffer, tErr.Cause)
	assert.False(t, core.IsFatal(err))

	var mErr *core.MaterializationError
	assert.False(t, errors.As(err, &mErr))
}

func TestNewExecutor_BadProxy(t *testing.T) {
	opts := core.DefaultTransportOptions
	opts.ProxyURL = "://not-a-url"
	_, err := NewExecutor(opts)
	assert.Error(t, err)
}
