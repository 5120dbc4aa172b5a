package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const idleTTL = 5 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Memory is a per-key token bucket refilled at limit/window, with a burst
// of limit. Idle keys are dropped by a background sweep.
type Memory struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	every    rate.Limit
	now      func() time.Time
	done     chan struct{}
	once     sync.Once
}

func NewMemory(limit int, window time.Duration) *Memory {
	m := &Memory{
		visitors: make(map[string]*visitor),
		limit:    limit,
		every:    rate.Every(window / time.Duration(max(1, limit))),
		now:      time.Now,
		done:     make(chan struct{}),
	}

	go m.sweep()
	return m
}

func (m *Memory) Allow(_ context.Context, key string) (Decision, error) {
	now := m.now()
	lim := m.get(key, now)

	decision := Decision{Limit: m.limit}

	r := lim.ReserveN(now, 1)
	if !r.OK() {
		decision.RetryAfter = time.Second
		return decision, nil
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		decision.RetryAfter = delay
		return decision, nil
	}

	decision.Allowed = true
	decision.Remaining = max(0, int(lim.TokensAt(now)))
	return decision, nil
}

func (m *Memory) get(key string, now time.Time) *rate.Limiter {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(m.every, m.limit)}
		m.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter
}

func (m *Memory) sweep() {
	ticker := time.NewTicker(idleTTL)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.prune(m.now())
		}
	}
}

func (m *Memory) prune(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, v := range m.visitors {
		if now.Sub(v.lastSeen) > idleTTL {
			delete(m.visitors, key)
		}
	}
}

func (m *Memory) Name() string { return "memory" }

func (m *Memory) Close() error {
	m.once.Do(func() { close(m.done) })
	return nil
}
