package server

import (
	"sync"
	"time"
)

// rateLimiter is a fixed-window in-process limiter, keyed by caller. Token
// issuance is owner-only and low volume, so per-process accounting is enough.
type rateLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	counts map[string]*windowCount
}

type windowCount struct {
	windowStart time.Time
	count       int
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		limit:  limit,
		window: window,
		counts: make(map[string]*windowCount),
	}
}

func (r *rateLimiter) Allow(key string) bool {
	now := time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.counts[key]
	if !ok || now.Sub(entry.windowStart) >= r.window {
		r.counts[key] = &windowCount{windowStart: now, count: 1}
		r.sweep(now)
		return true
	}
	if entry.count >= r.limit {
		return false
	}
	entry.count++
	return true
}

func (r *rateLimiter) sweep(now time.Time) {
	for key, entry := range r.counts {
		if now.Sub(entry.windowStart) >= r.window {
			delete(r.counts, key)
		}
	}
}
