package workspace

import (
	"sync"
)

// ReportCache memoizes compilation outputs keyed by the flattened class hash.
// Re-compiling an unchanged model in a watch loop or multi-root batch hits
// the cache instead of re-running assembly and ordering.
type ReportCache struct {
	mu        sync.RWMutex
	cache     map[string]*Outcome
	order     []string
	maxSize   int
	hits      int64
	misses    int64
	evictions int64
}

// NewReportCache creates a cache with the specified maximum size. When the
// cache is full, the oldest entry is evicted (FIFO). Set maxSize to 0 for an
// unlimited cache.
func NewReportCache(maxSize int) *ReportCache {
	return &ReportCache{
		cache:   make(map[string]*Outcome),
		maxSize: maxSize,
	}
}

// Get retrieves a cached outcome by hash. Returns nil if not found.
func (c *ReportCache) Get(hash string) *Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	if out, ok := c.cache[hash]; ok {
		c.hits++
		return out
	}
	c.misses++
	return nil
}

// Put stores an outcome under its hash.
func (c *ReportCache) Put(hash string, out *Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.cache[hash]; exists {
		c.cache[hash] = out
		return
	}
	if c.maxSize > 0 && len(c.cache) >= c.maxSize {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.cache, oldest)
		c.evictions++
	}
	c.cache[hash] = out
	c.order = append(c.order, hash)
}

// Clear removes all entries from the cache.
func (c *ReportCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]*Outcome)
	c.order = nil
}

// Size returns the current number of cached entries.
func (c *ReportCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

// Stats returns cache statistics.
type Stats struct {
	Size      int
	MaxSize   int
	Hits      int64
	Misses    int64
	Evictions int64
	HitRate   float64
}

// Stats returns cache statistics.
func (c *ReportCache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := c.hits + c.misses
	hitRate := 0.0
	if total > 0 {
		hitRate = float64(c.hits) / float64(total)
	}

	return Stats{
		Size:      len(c.cache),
		MaxSize:   c.maxSize,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		HitRate:   hitRate,
	}
}
