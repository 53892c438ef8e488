package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/remedyhub/internal/adapter/metrics"
	"github.com/pscheid92/remedyhub/internal/domain"
	goredis "github.com/redis/go-redis/v9"
)

const searchCacheName = "search"

// SearchCache keeps search results in a small in-process layer in front of
// Redis. Both layers expire entries; the in-process layer never holds an
// entry longer than memTTL.
type SearchCache struct {
	rdb     goredis.Cmdable
	mem     *memoryCache
	metrics *metrics.CacheMetrics
}

var _ domain.SearchCache = (*SearchCache)(nil)

func NewSearchCache(rdb goredis.Cmdable, clock clockwork.Clock, memTTL time.Duration, m *metrics.CacheMetrics) *SearchCache {
	return &SearchCache{
		rdb:     rdb,
		mem:     newMemoryCache(clock, memTTL),
		metrics: m,
	}
}

// StartEvictionTimer periodically drops expired in-process entries.
// Returns a stop function that should be deferred.
func (c *SearchCache) StartEvictionTimer(interval time.Duration) func() {
	ticker := c.mem.clock.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.Chan():
				if evicted := c.mem.evictExpired(); evicted > 0 {
					slog.Debug("Evicted expired search cache entries", "count", evicted, "remaining", c.mem.size())
				}
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	return func() {
		close(done)
	}
}

func (c *SearchCache) GetSearch(ctx context.Context, key string) (*domain.SearchResult, bool, error) {
	if res, ok := c.mem.get(key); ok {
		c.hit()
		return res, true, nil
	}

	data, err := c.rdb.Get(ctx, searchCacheKey(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		c.miss()
		return nil, false, nil
	}
	if err != nil {
		c.fail()
		return nil, false, fmt.Errorf("search cache GET failed: %w", err)
	}

	var res domain.SearchResult
	if err := json.Unmarshal(data, &res); err != nil {
		c.fail()
		return nil, false, fmt.Errorf("failed to decode cached search: %w", err)
	}

	c.mem.set(key, &res, c.mem.ttl)
	c.hit()
	return &res, true, nil
}

func (c *SearchCache) SetSearch(ctx context.Context, key string, result *domain.SearchResult, ttl time.Duration) error {
	encoded, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode search result: %w", err)
	}

	if err := c.rdb.Set(ctx, searchCacheKey(key), encoded, ttl).Err(); err != nil {
		c.fail()
		return fmt.Errorf("search cache SET failed: %w", err)
	}

	c.mem.set(key, result, ttl)
	return nil
}

func (c *SearchCache) hit() {
	if c.metrics != nil {
		c.metrics.Hits.WithLabelValues(searchCacheName).Inc()
	}
}

func (c *SearchCache) miss() {
	if c.metrics != nil {
		c.metrics.Misses.WithLabelValues(searchCacheName).Inc()
	}
}

func (c *SearchCache) fail() {
	if c.metrics != nil {
		c.metrics.Errors.WithLabelValues(searchCacheName).Inc()
	}
}

func searchCacheKey(key string) string {
	return "search_cache:" + key
}

// memoryCache is an in-process L1 cache with TTL-based expiry.
type memoryCache struct {
	mu      sync.RWMutex
	clock   clockwork.Clock
	entries map[string]memoryCacheEntry
	ttl     time.Duration
}

type memoryCacheEntry struct {
	result    *domain.SearchResult
	expiresAt time.Time
}

func newMemoryCache(clock clockwork.Clock, ttl time.Duration) *memoryCache {
	return &memoryCache{
		clock:   clock,
		entries: make(map[string]memoryCacheEntry),
		ttl:     ttl,
	}
}

func (c *memoryCache) get(key string) (*domain.SearchResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || !c.clock.Now().Before(entry.expiresAt) {
		return nil, false
	}
	return entry.result, true
}

func (c *memoryCache) set(key string, result *domain.SearchResult, ttl time.Duration) {
	ttl = min(ttl, c.ttl)
	if ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryCacheEntry{result: result, expiresAt: c.clock.Now().Add(ttl)}
}

// evictExpired drops expired entries and returns how many were removed.
func (c *memoryCache) evictExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	evicted := 0
	for key, entry := range c.entries {
		if !now.Before(entry.expiresAt) {
			delete(c.entries, key)
			evicted++
		}
	}
	return evicted
}

func (c *memoryCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
