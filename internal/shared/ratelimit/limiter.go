// Package ratelimit throttles requests per client key.
//
// Two implementations share the Limiter interface: a fixed window kept in
// Redis, shared by every API instance, and an in-process token bucket used
// when Redis is disabled or unreachable at startup.
package ratelimit

import (
	"context"
	"time"
)

type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

type Limiter interface {
	// Allow records one hit for key and reports whether it is within the limit
	Allow(ctx context.Context, key string) (Decision, error)

	// Name identifies the backing store ("redis" or "memory")
	Name() string

	Close() error
}
