// Package cache stores short-lived string values such as reworded replies.
package cache

import (
	"context"
	"time"
)

// Cache is implemented by the in-memory and Redis caches.
// Get returns models.ErrCacheMiss for absent or expired keys.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Close() error
}

var (
	_ Cache = (*MemoryCache)(nil)
	_ Cache = (*RedisCache)(nil)
)
