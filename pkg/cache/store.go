package cache

import (
	"context"
	"time"
)

// Store is the minimal key-value surface the cache layer needs from a
// backing store. Two implementations exist: a network-backed Redis store and
// a bounded in-process store used as fallback.
type Store interface {
	// Get returns the value and whether the key was present and unexpired.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	// IncrWithExpiry atomically increments a counter, setting the expiry on
	// first increment, and returns the new count. Used for fixed-window rate
	// limiting.
	IncrWithExpiry(ctx context.Context, key string, ttl time.Duration) (int64, error)
}
