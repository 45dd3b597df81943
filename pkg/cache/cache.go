// Package cache unifies a network-backed Redis store with a bounded
// in-process fallback behind one fail-open facade. Backing-store errors never
// reach callers: reads degrade to the fallback and then to a miss, writes are
// logged and dropped. Cache correctness is advisory, not required for system
// correctness.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultTTLSeconds = 300

type Cache struct {
	primary  Store // nil when Redis is unconfigured
	fallback *MemoryStore
	log      *slog.Logger
}

// New builds a cache over the given Redis client. A nil client puts the whole
// layer into in-process-only mode.
func New(client *redis.Client, log *slog.Logger) *Cache {
	c := &Cache{
		fallback: NewMemoryStore(DefaultMemoryCapacity),
		log:      log,
	}
	if client != nil {
		c.primary = NewRedisStore(client)
	}
	return c
}

// Get unmarshals the cached value for key into dest and reports whether a
// value was found. A primary read error falls back to the in-process store.
func (c *Cache) Get(ctx context.Context, key string, dest any) bool {
	raw, ok := c.read(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		c.log.Warn("cache: corrupt entry dropped", "key", key, "error", err)
		c.Delete(ctx, key)
		return false
	}
	return true
}

// Set stores value under key with the given TTL. The in-process store is
// always written as a shadow copy so a later degraded read still sees recent
// writes from this process.
func (c *Cache) Set(ctx context.Context, key string, value any, ttlSeconds int) {
	if ttlSeconds <= 0 {
		ttlSeconds = DefaultTTLSeconds
	}
	raw, err := json.Marshal(value)
	if err != nil {
		c.log.Warn("cache: marshal failed", "key", key, "error", err)
		return
	}
	ttl := time.Duration(ttlSeconds) * time.Second

	if c.primary != nil {
		if err := c.primary.Set(ctx, key, string(raw), ttl); err != nil {
			c.log.Warn("cache: primary set failed", "key", key, "error", err)
		}
	}
	_ = c.fallback.Set(ctx, key, string(raw), ttl)
}

func (c *Cache) Delete(ctx context.Context, key string) {
	if c.primary != nil {
		if err := c.primary.Delete(ctx, key); err != nil {
			c.log.Warn("cache: primary delete failed", "key", key, "error", err)
		}
	}
	_ = c.fallback.Delete(ctx, key)
}

func (c *Cache) Clear(ctx context.Context) {
	if c.primary != nil {
		if err := c.primary.Clear(ctx); err != nil {
			c.log.Warn("cache: primary clear failed", "error", err)
		}
	}
	_ = c.fallback.Clear(ctx)
}

// RateLimit applies a fixed-window counter to key and reports whether the
// request is admitted. maxRequests requests are allowed per windowSeconds;
// the window resets via the store's expiry. Errors fail open: availability is
// prioritized over strict quota enforcement.
//
// Fixed-window is a deliberate choice for O(1) state and a single round trip.
// The known boundary double-burst (up to 2x allowance at window edges) is
// accepted.
func (c *Cache) RateLimit(ctx context.Context, key string, maxRequests, windowSeconds int) bool {
	ttl := time.Duration(windowSeconds) * time.Second

	if c.primary != nil {
		count, err := c.primary.IncrWithExpiry(ctx, key, ttl)
		if err != nil {
			c.log.Warn("cache: rate limit counter failed, allowing request", "key", key, "error", err)
			return true
		}
		return count <= int64(maxRequests)
	}

	count, err := c.fallback.IncrWithExpiry(ctx, key, ttl)
	if err != nil {
		return true
	}
	return count <= int64(maxRequests)
}

func (c *Cache) read(ctx context.Context, key string) (string, bool) {
	if c.primary != nil {
		raw, found, err := c.primary.Get(ctx, key)
		if err == nil {
			return raw, found
		}
		c.log.Warn("cache: primary get failed, using fallback", "key", key, "error", err)
	}
	raw, found, _ := c.fallback.Get(ctx, key)
	return raw, found
}
