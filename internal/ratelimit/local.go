package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/lumenlab/glossa/internal/core"
)

// LocalGuard is an in-process token bucket placed in front of the shared
// store, one bucket per scope. It absorbs bursts before they turn into
// store round trips and keeps working when the store is down. Buckets for
// idle scopes are dropped by a janitor.
type LocalGuard struct {
	mu      sync.Mutex
	entries map[string]*guardEntry

	rps          rate.Limit
	burst        int
	idleTTL      time.Duration
	cleanupEvery time.Duration
}

type guardEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

type GuardOption func(*LocalGuard)

func WithIdleTTL(d time.Duration) GuardOption {
	return func(g *LocalGuard) { g.idleTTL = d }
}

func WithCleanupEvery(d time.Duration) GuardOption {
	return func(g *LocalGuard) { g.cleanupEvery = d }
}

func NewLocalGuard(rps float64, burst int, opts ...GuardOption) *LocalGuard {
	g := &LocalGuard{
		entries:      make(map[string]*guardEntry),
		rps:          rate.Limit(rps),
		burst:        burst,
		idleTTL:      15 * time.Minute,
		cleanupEvery: 2 * time.Minute,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *LocalGuard) Name() string { return "local" }

func (g *LocalGuard) Check(_ context.Context, scope string) Decision {
	if g.get(scope).Allow() {
		return allow
	}
	return Decision{
		Code:       core.CodeRateLimit,
		Message:    "Too many requests. Please slow down.",
		RetryAfter: time.Second,
	}
}

func (g *LocalGuard) get(scope string) *rate.Limiter {
	now := time.Now()

	g.mu.Lock()
	defer g.mu.Unlock()

	if ent, ok := g.entries[scope]; ok {
		ent.lastSeen = now
		return ent.lim
	}

	lim := rate.NewLimiter(g.rps, g.burst)
	g.entries[scope] = &guardEntry{lim: lim, lastSeen: now}
	return lim
}

func (g *LocalGuard) Cleanup() {
	cutoff := time.Now().Add(-g.idleTTL)

	g.mu.Lock()
	defer g.mu.Unlock()

	for k, ent := range g.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(g.entries, k)
		}
	}
}

// StartJanitor periodically drops idle buckets until ctx is cancelled.
func (g *LocalGuard) StartJanitor(ctx context.Context) {
	if g.cleanupEvery <= 0 {
		return
	}

	t := time.NewTicker(g.cleanupEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				g.Cleanup()
			}
		}
	}()
}
