package sheets

import "sync"

type cacheKey struct {
	sheetID string
	tab     string
}

// HeaderCache keeps one resolved HeaderMap per (sheet, tab) for the life of the process.
// Stored maps are never modified.
type HeaderCache struct {
	mu      sync.RWMutex
	aliases AliasTable
	entries map[cacheKey]*HeaderMap
}

// NewHeaderCache creates a cache resolving with aliases.
func NewHeaderCache(aliases AliasTable) *HeaderCache {
	return &HeaderCache{
		aliases: aliases,
		entries: make(map[cacheKey]*HeaderMap),
	}
}

// Lookup returns the cached map for (sheetID, tab), if any.
func (c *HeaderCache) Lookup(sheetID, tab string) (*HeaderMap, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	hm, ok := c.entries[cacheKey{sheetID, tab}]
	return hm, ok
}

// Resolve returns the cached map for (sheetID, tab) or resolves it from grid.
// Failures are not cached.
func (c *HeaderCache) Resolve(sheetID, tab string, grid [][]string) (*HeaderMap, error) {
	if hm, ok := c.Lookup(sheetID, tab); ok {
		return hm, nil
	}

	hm, err := Resolve(grid, c.aliases)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.entries[cacheKey{sheetID, tab}]; ok {
		return existing, nil
	}
	c.entries[cacheKey{sheetID, tab}] = hm
	return hm, nil
}

// Len reports how many tabs are cached.
func (c *HeaderCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
