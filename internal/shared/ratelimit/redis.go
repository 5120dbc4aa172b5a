package ratelimit

import (
	"context"
	"fmt"
	"time"

	"library-api/pkg/cache"
)

const keyPrefix = "ratelimit:"

// FixedWindow counts hits per key in a window that starts with the first
// hit: INCR, then EXPIRE when the counter is new.
type FixedWindow struct {
	store  cache.Counter
	limit  int
	window time.Duration
}

func NewFixedWindow(store cache.Counter, limit int, window time.Duration) *FixedWindow {
	return &FixedWindow{store: store, limit: limit, window: window}
}

func (f *FixedWindow) Allow(ctx context.Context, key string) (Decision, error) {
	redisKey := keyPrefix + key

	count, err := f.store.Increment(ctx, redisKey)
	if err != nil {
		return Decision{}, fmt.Errorf("increment counter: %w", err)
	}

	if count == 1 {
		if err := f.store.Expire(ctx, redisKey, f.window); err != nil {
			return Decision{}, fmt.Errorf("set window expiry: %w", err)
		}
	}

	decision := Decision{
		Allowed:   count <= int64(f.limit),
		Limit:     f.limit,
		Remaining: max(0, f.limit-int(count)),
	}
	if decision.Allowed {
		return decision, nil
	}

	ttl, err := f.store.TTL(ctx, redisKey)
	if err != nil {
		return Decision{}, fmt.Errorf("read window ttl: %w", err)
	}
	if ttl < 0 {
		// counter lost its expiry (EXPIRE failed after INCR); restart the window
		if err := f.store.Expire(ctx, redisKey, f.window); err != nil {
			return Decision{}, fmt.Errorf("repair window expiry: %w", err)
		}
		ttl = f.window
	}
	decision.RetryAfter = ttl

	return decision, nil
}

func (f *FixedWindow) Name() string { return "redis" }

// Close is a no-op; the Redis client is owned by the container
func (f *FixedWindow) Close() error { return nil }
