package repository

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/conlit/backend/internal/domain"
)

// MemorySolvedCache is a process-local domain.SolvedCacheRepository
type MemorySolvedCache struct {
	mu      sync.RWMutex
	entries map[string]domain.SolvedCacheEntry
}

// NewMemorySolvedCache creates an empty in-memory solved cache
func NewMemorySolvedCache() *MemorySolvedCache {
	return &MemorySolvedCache{entries: make(map[string]domain.SolvedCacheEntry)}
}

func (c *MemorySolvedCache) Get(_ context.Context, username string) (*domain.SolvedCacheEntry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[username]
	if !ok {
		return nil, nil
	}
	entry.SolvedSlugs = slices.Clone(entry.SolvedSlugs)
	return &entry, nil
}

func (c *MemorySolvedCache) Put(_ context.Context, entry *domain.SolvedCacheEntry) error {
	stored := *entry
	stored.SolvedSlugs = slices.Clone(entry.SolvedSlugs)
	if stored.UpdatedAt.IsZero() {
		stored.UpdatedAt = time.Now().UTC()
	}

	c.mu.Lock()
	c.entries[entry.Username] = stored
	c.mu.Unlock()
	return nil
}

// Len returns the number of cached users
func (c *MemorySolvedCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

var _ domain.SolvedCacheRepository = (*MemorySolvedCache)(nil)
