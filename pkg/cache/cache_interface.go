package cache

import (
	"context"
	"time"
)

// Counter is the subset of a key-value store needed for windowed counters.
// Lets the rate limiter swap Redis for anything with atomic increments.
type Counter interface {
	// Increment atomically adds 1 to key and returns the new value.
	// A missing key starts from 0.
	Increment(ctx context.Context, key string) (int64, error)

	// Expire sets the TTL of an existing key
	Expire(ctx context.Context, key string, ttl time.Duration) error

	// TTL returns the remaining lifetime of key.
	// Negative values follow Redis: -1 no expiry, -2 missing key.
	TTL(ctx context.Context, key string) (time.Duration, error)

	// Ping checks the connection
	Ping(ctx context.Context) error
}
