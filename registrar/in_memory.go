package registrar

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/artifactup/core"
)

// ErrNotSeeded is returned when no put URL was seeded for the requested
// task / run / artifact triple.
var ErrNotSeeded = fmt.Errorf("registrar: no put url seeded for artifact")

// InMemory is a trivial in-process core.Registrar useful for tests, examples
// and single-process prototypes. Put URLs are seeded per task/run/artifact
// triple; lookups on unseeded triples fail with ErrNotSeeded.
type InMemory struct {
	mu   sync.RWMutex
	urls map[string]string
}

// NewInMemory returns an empty in-memory registrar.
func NewInMemory() *InMemory {
	return &InMemory{urls: make(map[string]string)}
}

func key(taskID, runID, name string) string {
	return taskID + "/" + runID + "/" + name
}

// Seed registers (or overwrites) the put URL for the given triple.
func (r *InMemory) Seed(taskID, runID, name, putURL string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.urls[key(taskID, runID, name)] = putURL
}

// CreateArtifact returns the seeded put URL or ErrNotSeeded. The artifact
// options are accepted for interface parity but not recorded.
func (r *InMemory) CreateArtifact(_ context.Context, taskID, runID, name string, _ core.ArtifactOptions) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.urls[key(taskID, runID, name)]
	if !ok {
		return "", ErrNotSeeded
	}
	return u, nil
}
