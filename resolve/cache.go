package resolve

import (
	"maps"
	"sync"
)

// Cache memoizes dimensions by image reference. Entries are never evicted or
// replaced by anything but a newer probe of the same reference. Cache belongs
// to a single Resolver and lives as long as it does.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Dimensions
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]Dimensions)}
}

func (c *Cache) Get(ref string) (Dimensions, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	d, ok := c.entries[ref]
	return d, ok
}

func (c *Cache) Put(ref string, d Dimensions) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[ref] = d
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Snapshot returns a copy of all memoized entries.
func (c *Cache) Snapshot() map[string]Dimensions {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return maps.Clone(c.entries)
}
