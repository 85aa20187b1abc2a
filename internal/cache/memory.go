package cache

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/amishk599/joblens/internal/model"
)

var _ model.ResultCache = (*MemoryCache)(nil)

type entry struct {
	result    model.SearchResult
	expiresAt time.Time
}

// MemoryCache is a process-local ResultCache. Expired entries are dropped
// when read and by Sweep.
type MemoryCache struct {
	mu         sync.RWMutex
	entries    map[string]entry
	defaultTTL time.Duration
	now        func() time.Time
}

// NewMemoryCache returns an empty cache. defaultTTL <= 0 selects DefaultTTL.
func NewMemoryCache(defaultTTL time.Duration) *MemoryCache {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	return &MemoryCache{
		entries:    make(map[string]entry),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

// Get returns the cached result for key. An expired entry is a miss.
func (c *MemoryCache) Get(_ context.Context, key string) (model.SearchResult, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return model.SearchResult{}, false, nil
	}

	if !c.now().Before(e.expiresAt) {
		c.mu.Lock()
		// Re-check: a concurrent Set may have refreshed the entry.
		if cur, ok := c.entries[key]; ok && !c.now().Before(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return model.SearchResult{}, false, nil
	}
	return cloneResult(e.result), true, nil
}

// Set stores result under key for ttl, or the default TTL when ttl <= 0.
func (c *MemoryCache) Set(_ context.Context, key string, result model.SearchResult, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	c.mu.Lock()
	c.entries[key] = entry{result: cloneResult(result), expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

// Clear drops every entry.
func (c *MemoryCache) Clear(_ context.Context) error {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
	return nil
}

// Sweep evicts all expired entries and returns how many were removed.
func (c *MemoryCache) Sweep(_ context.Context) (int, error) {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
			removed++
		}
	}
	return removed, nil
}

// Len reports the number of entries, expired or not.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// cloneResult copies the slices so callers can't mutate a cached entry.
func cloneResult(r model.SearchResult) model.SearchResult {
	r.Jobs = slices.Clone(r.Jobs)
	r.Sources = slices.Clone(r.Sources)
	return r
}
