package noise

import (
	"fmt"
	"math"
	"sync"
)

// Cache memoizes noise samples keyed by family tag and quantized
// coordinates. It is owned by one engine instance; there are no
// package-level caches. When the entry count passes the cleanup
// threshold the cache evicts randomly down to roughly half capacity
// in place rather than rebuilding, amortizing repeated-coordinate
// queries without unbounded growth.
type Cache struct {
	maxSize   int
	precision float64
	entries   map[cacheKey]float64
	mu        sync.RWMutex
	hits      uint64
	misses    uint64
	evictions uint64
}

// cacheKey identifies one quantized sample.
type cacheKey struct {
	tag        uint8
	x, y, z, w int64
}

// CacheConfig configures the sample cache.
type CacheConfig struct {
	// MaxSize is the cleanup threshold in entries
	MaxSize int
	// Precision is the quantization bucket width; samples closer than
	// this along every axis share an entry
	Precision float64
}

// DefaultCacheConfig returns the baseline cache configuration.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{MaxSize: 65536, Precision: 0.001}
}

// Validate checks the configuration ranges.
func (cfg CacheConfig) Validate() error {
	if cfg.Precision <= 0 {
		return fmt.Errorf("%w: %g", ErrBadPrecision, cfg.Precision)
	}
	return nil
}

// NewCache creates a sample cache. A non-positive size or precision
// falls back to the defaults.
func NewCache(cfg CacheConfig) *Cache {
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = DefaultCacheConfig().MaxSize
	}
	if cfg.Precision <= 0 {
		cfg.Precision = DefaultCacheConfig().Precision
	}
	return &Cache{
		maxSize:   cfg.MaxSize,
		precision: cfg.Precision,
		entries:   make(map[cacheKey]float64),
	}
}

// keyFor quantizes a coordinate into a cache key.
func (c *Cache) keyFor(tag uint8, x, y, z, w float64) cacheKey {
	inv := 1 / c.precision
	return cacheKey{
		tag: tag,
		x:   int64(math.Round(x * inv)),
		y:   int64(math.Round(y * inv)),
		z:   int64(math.Round(z * inv)),
		w:   int64(math.Round(w * inv)),
	}
}

// Get retrieves a cached sample.
func (c *Cache) Get(key cacheKey) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.entries[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return v, ok
}

// Put stores a sample, evicting first if the cache is at threshold.
func (c *Cache) Put(key cacheKey, value float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxSize {
		c.evictHalf()
	}
	c.entries[key] = value
}

// evictHalf removes entries down to ~50% capacity. Map iteration
// order is already randomized, so walking it doubles as random
// eviction. Caller holds the lock.
func (c *Cache) evictHalf() {
	target := c.maxSize / 2
	for key := range c.entries {
		if len(c.entries) <= target {
			break
		}
		delete(c.entries, key)
		c.evictions++
	}
}

// Clear removes all entries from the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey]float64)
}

// Size returns the current number of entries.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// HitRate returns the cache hit rate (0.0 - 1.0).
func (c *Cache) HitRate() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := c.hits + c.misses
	if total == 0 {
		return 0.0
	}
	return float64(c.hits) / float64(total)
}

// Stats returns hit, miss, and eviction counters.
func (c *Cache) Stats() (hits, misses, evictions uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses, c.evictions
}
