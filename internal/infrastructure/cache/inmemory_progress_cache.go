package cache

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/listforge/backend/internal/application/generation"
	"github.com/listforge/backend/internal/domain/shared"
)

// InMemoryProgressCache implements the batch ProgressCache with a plain map.
// Suitable for single-instance deployments and testing; progress is lost on
// restart, at which point pollers fall back to the primary store.
type InMemoryProgressCache struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]generation.BatchJobResponse
}

// NewInMemoryProgressCache creates a new in-memory progress cache
func NewInMemoryProgressCache() *InMemoryProgressCache {
	return &InMemoryProgressCache{
		entries: make(map[uuid.UUID]generation.BatchJobResponse),
	}
}

// SetProgress stores the latest progress snapshot for a batch
func (c *InMemoryProgressCache) SetProgress(_ context.Context, progress *generation.BatchJobResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[progress.ID] = *progress
	return nil
}

// GetProgress returns the cached snapshot, or shared.ErrNotFound on a miss
func (c *InMemoryProgressCache) GetProgress(_ context.Context, jobID uuid.UUID) (*generation.BatchJobResponse, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	progress, ok := c.entries[jobID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &progress, nil
}

// Ensure InMemoryProgressCache implements the ProgressCache interface
var _ generation.ProgressCache = (*InMemoryProgressCache)(nil)
