// Package ratelimit provides a keyed token-bucket rate limiter used to
// protect the auth endpoints from per-IP abuse.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// sweepInterval is how often idle entries are evicted.
const sweepInterval = 10 * time.Minute

// KeyedRateLimiter manages per-key rate limiting. Each unique key gets
// its own independent token bucket.
type KeyedRateLimiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	limit   rate.Limit
	burst   int

	done     chan struct{}
	stopOnce sync.Once
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// New creates a new keyed rate limiter allowing rps requests per second
// with the given burst per key.
func New(rps float64, burst int) *KeyedRateLimiter {
	krl := &KeyedRateLimiter{
		entries: make(map[string]*entry),
		limit:   rate.Limit(rps),
		burst:   burst,
		done:    make(chan struct{}),
	}

	go krl.sweep()

	return krl
}

// Allow reports whether a request for the given key should be let
// through. Returns immediately without blocking.
func (krl *KeyedRateLimiter) Allow(key string) bool {
	return krl.getLimiter(key).Allow()
}

// Wait blocks until a request for the given key is allowed or the
// context is canceled.
func (krl *KeyedRateLimiter) Wait(ctx context.Context, key string) error {
	return krl.getLimiter(key).Wait(ctx)
}

func (krl *KeyedRateLimiter) getLimiter(key string) *rate.Limiter {
	krl.mu.Lock()
	defer krl.mu.Unlock()

	e, ok := krl.entries[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(krl.limit, krl.burst)}
		krl.entries[key] = e
	}
	e.lastSeen = time.Now()
	return e.limiter
}

// Stop shuts down the eviction goroutine.
func (krl *KeyedRateLimiter) Stop() {
	krl.stopOnce.Do(func() {
		close(krl.done)
	})
}

// sweep evicts keys not seen for two sweep intervals. A fresh bucket is
// full, so eviction never grants more than the configured burst.
func (krl *KeyedRateLimiter) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-krl.done:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-2 * sweepInterval)
			krl.mu.Lock()
			for key, e := range krl.entries {
				if e.lastSeen.Before(cutoff) {
					delete(krl.entries, key)
				}
			}
			krl.mu.Unlock()
		}
	}
}
