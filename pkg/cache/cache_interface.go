package cache

import (
	"context"
	"time"
)

// Cache is the contract for the caching layer. Implementations: Redis for
// deployments, Noop when no cache is configured.
type Cache interface {
	// Get reads a key and unmarshals it into dest.
	// found=false means cache miss; dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores a value with a TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes keys from the cache.
	Delete(ctx context.Context, keys ...string) error

	// DeletePattern removes every key matching a glob pattern.
	DeletePattern(ctx context.Context, pattern string) error

	// Ping verifies the connection.
	Ping(ctx context.Context) error
}

// Noop is a Cache that stores nothing. Used when Redis is unavailable so
// services never need nil checks.
type Noop struct{}

func (Noop) Get(ctx context.Context, key string, dest interface{}) (bool, error) { return false, nil }
func (Noop) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}
func (Noop) Delete(ctx context.Context, keys ...string) error          { return nil }
func (Noop) DeletePattern(ctx context.Context, pattern string) error   { return nil }
func (Noop) Ping(ctx context.Context) error                            { return nil }
