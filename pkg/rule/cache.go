package rule

import (
	"slices"
	"sync"
)

// DefaultCacheSize bounds the number of RuleSets kept by a [Cache] when no
// explicit size is given.
const DefaultCacheSize = 2

// Cache holds the most recently loaded RuleSets keyed by source path, so
// repeated lookups reuse one compilation. Compiled RuleSets are immutable,
// so entries can be shared freely across goroutines; invalidation swaps the
// cached value atomically under the lock, and readers that already hold a
// RuleSet keep a consistent snapshot.
type Cache struct {
	entries map[string]RuleSet
	order   []string // Least recently used first.
	mu      sync.Mutex
	max     int
}

// NewCache creates a cache keeping at most size RuleSets. Sizes below one
// fall back to [DefaultCacheSize].
func NewCache(size int) *Cache {
	if size < 1 {
		size = DefaultCacheSize
	}

	return &Cache{
		entries: make(map[string]RuleSet, size),
		max:     size,
	}
}

// Get returns the RuleSet compiled from path, loading it on first use. The
// returned value stays valid after invalidation; it just stops being
// shared.
func (c *Cache) Get(path string) (RuleSet, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if rs, ok := c.entries[path]; ok {
		c.touch(path)

		return rs, nil
	}

	rs, err := Load(path)
	if err != nil {
		return nil, err
	}

	c.entries[path] = rs
	c.order = append(c.order, path)
	for len(c.order) > c.max {
		delete(c.entries, c.order[0])
		c.order = c.order[1:]
	}

	return rs, nil
}

// Invalidate drops the cached RuleSet for path. The next Get recompiles it.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[path]; !ok {
		return
	}

	delete(c.entries, path)
	c.remove(path)
}

// Len reports the number of cached RuleSets.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

func (c *Cache) touch(path string) {
	c.remove(path)
	c.order = append(c.order, path)
}

func (c *Cache) remove(path string) {
	if i := slices.Index(c.order, path); i >= 0 {
		c.order = slices.Delete(c.order, i, i+1)
	}
}
