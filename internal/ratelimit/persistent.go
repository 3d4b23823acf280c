package ratelimit

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/lumenlab/glossa/internal/core"
)

// PersistentLimiter caps the total number of requests an authenticated user
// may make within one login session. There is no time window: the counter
// only clears when the session ends. This trades responsiveness for a
// simpler abuse-prevention guarantee -- a session's total consumption of
// the backend is bounded no matter how slowly it is spread out.
//
// Correctness under concurrent requests rests entirely on the store's
// atomic increment; the limiter itself holds no locks.
type PersistentLimiter struct {
	store core.CounterStore
	name  string
	max   int64
}

func NewPersistent(store core.CounterStore, name string, max int64) *PersistentLimiter {
	return &PersistentLimiter{store: store, name: name, max: max}
}

// UserKey returns the durable counter key for one (user, limiter) pair.
// The format is shared with the session-end reset path.
func UserKey(userID, limiterName string) string {
	return fmt.Sprintf("ratelimit:user:%s:%s", userID, limiterName)
}

func (l *PersistentLimiter) Name() string { return l.name }

func (l *PersistentLimiter) Check(ctx context.Context, scope string) Decision {
	// Anonymous callers are not session-scoped; the windowed limiters
	// remain the first line of defense for them.
	if scope == "" {
		return allow
	}

	count, err := l.store.Incr(ctx, UserKey(scope, l.name))
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).
			Str("limiter", l.name).
			Str("user_id", scope).
			Msg("ratelimit.degraded")
		return Decision{Allowed: true, Degraded: true}
	}

	if count > l.max {
		return Decision{
			Code:    core.CodeRateLimit,
			Message: "Too many requests. Rate limit exceeded for this session. You will be allowed again after logout.",
		}
	}
	return allow
}
