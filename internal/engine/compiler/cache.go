package compiler

import (
	"slices"
	"sync"

	"go.trai.ch/modcss/internal/core/domain"
)

// Cache maps a stylesheet to its compiled entry.
// An absent entry means the file has not been compiled since it was last invalidated.
type Cache struct {
	mu      sync.RWMutex
	entries map[domain.FileID]*domain.CacheEntry
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[domain.FileID]*domain.CacheEntry),
	}
}

// Get returns the entry for id. A miss is not an error.
func (c *Cache) Get(id domain.FileID) (*domain.CacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[id]
	return entry, ok
}

// Put stores entry for id, replacing any earlier compile.
func (c *Cache) Put(id domain.FileID, entry *domain.CacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[id] = entry
}

// Invalidate clears the entry for id. The dependency graph is left alone.
// It reports whether an entry was present.
func (c *Cache) Invalidate(id domain.FileID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[id]
	delete(c.entries, id)
	return ok
}

// Len returns the number of present entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Files returns the files with a present entry in path order.
func (c *Cache) Files() []domain.FileID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.FileID, 0, len(c.entries))
	for id := range c.entries {
		out = append(out, id)
	}
	slices.SortFunc(out, domain.FileID.Compare)
	return out
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}
