package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/allegro/bigcache/v3"
)

// Cache memoizes formatted results keyed by the normalized input record.
// Batches often repeat the same queries (fixed depots, grid points), and a
// hit skips both the solve and the formatting. A nil *Cache is a no-op.
type Cache struct {
	cache *bigcache.BigCache
}

// NewCache returns a cache bounded to maxMB megabytes.
func NewCache(ctx context.Context, maxMB int) (*Cache, error) {
	cfg := bigcache.DefaultConfig(time.Hour)
	cfg.Shards = 64
	cfg.MaxEntriesInWindow = 64 * 1024
	cfg.MaxEntrySize = 256
	cfg.HardMaxCacheSize = maxMB
	cfg.CleanWindow = 5 * time.Minute
	c, err := bigcache.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init result cache: %w", err)
	}
	return &Cache{cache: c}, nil
}

// Get returns the result stored under key, if any.
func (c *Cache) Get(key string) (string, bool) {
	if c == nil {
		return "", false
	}
	data, err := c.cache.Get(key)
	if err != nil {
		return "", false
	}
	return string(data), true
}

// Set stores value under key. A full cache evicts its oldest entries.
func (c *Cache) Set(key, value string) error {
	if c == nil {
		return nil
	}
	return c.cache.Set(key, []byte(value))
}

// Len reports the number of stored results.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return c.cache.Len()
}

// Close stops the cleanup goroutine and releases the shards.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.cache.Close()
}
