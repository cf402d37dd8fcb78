package stats

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache memoizes winrate lookups keyed by (puuid, champion, position).
// Entries expire after a TTL; a miss for any reason (expiry, eviction,
// backend failure) just recomputes.
type Cache interface {
	Get(ctx context.Context, key string) (*Winrate, bool)
	Set(ctx context.Context, key string, value *Winrate)
}

type memoryEntry struct {
	value   Winrate
	expires time.Time
}

// MemoryCache is a bounded in-process TTL cache. When full, expired entries
// are dropped first, then the oldest inserted key.
type MemoryCache struct {
	ttl        time.Duration
	maxEntries int

	mu      sync.Mutex
	entries map[string]memoryEntry
	order   []string

	now func() time.Time
}

// NewMemoryCache creates a cache holding at most maxEntries values for ttl
// each.
func NewMemoryCache(ttl time.Duration, maxEntries int) *MemoryCache {
	return &MemoryCache{
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]memoryEntry),
		now:        time.Now,
	}
}

// Get returns the cached value if present and not expired.
func (c *MemoryCache) Get(ctx context.Context, key string) (*Winrate, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || c.now().After(e.expires) {
		return nil, false
	}
	v := e.value
	return &v, true
}

// Set stores the value, evicting as needed to stay within the bound.
func (c *MemoryCache) Set(ctx context.Context, key string, value *Winrate) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.evictLocked()
	}
	if _, exists := c.entries[key]; !exists {
		c.order = append(c.order, key)
	}
	c.entries[key] = memoryEntry{value: *value, expires: c.now().Add(c.ttl)}
}

func (c *MemoryCache) evictLocked() {
	now := c.now()
	kept := c.order[:0]
	for _, key := range c.order {
		e, ok := c.entries[key]
		if ok && now.After(e.expires) {
			delete(c.entries, key)
			continue
		}
		kept = append(kept, key)
	}
	c.order = kept

	// Still full: drop the oldest live entry.
	if len(c.entries) >= c.maxEntries && len(c.order) > 0 {
		delete(c.entries, c.order[0])
		c.order = c.order[1:]
	}
}

// RedisCache stores winrate entries in Redis with a server-side TTL, for
// deployments where multiple replicas should share the memoization.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache wraps an existing Redis client.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Get returns the cached value; any backend or decode failure is a miss.
func (c *RedisCache) Get(ctx context.Context, key string) (*Winrate, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var w Winrate
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, false
	}
	return &w, true
}

// Set stores the value with the configured TTL. Failures are ignored; the
// cache is best-effort.
func (c *RedisCache) Set(ctx context.Context, key string, value *Winrate) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.client.Set(ctx, key, data, c.ttl)
}
