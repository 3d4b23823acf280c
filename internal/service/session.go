package service

import (
	"context"

	"github.com/lumenlab/glossa/internal/cache"
	"github.com/lumenlab/glossa/internal/core"
	"github.com/lumenlab/glossa/internal/ratelimit"
)

// SessionLimiterNames are the persistent limiter classes cleared when a
// session ends. Must stay in sync with the limiters wired in the router.
var SessionLimiterNames = []string{"message", "upload", "api"}

// SessionService handles the session-end hook. Logout is the only event
// that clears a user's persistent rate counters.
type SessionService struct {
	counters core.CounterStore
	cache    *cache.Cache
}

func NewSessionService(counters core.CounterStore, c *cache.Cache) *SessionService {
	return &SessionService{counters: counters, cache: c}
}

// OnSessionEnd clears the user's persistent rate records and cached
// snapshot. Cleanup is best effort: logout must succeed even when the
// store is down, so failures are logged as degraded events and swallowed.
func (s *SessionService) OnSessionEnd(ctx context.Context, userID string) {
	keys := make([]string, 0, len(SessionLimiterNames))
	for _, name := range SessionLimiterNames {
		keys = append(keys, ratelimit.UserKey(userID, name))
	}

	logDegraded(ctx, s.counters.Del(ctx, keys...), "session.rate_reset_degraded")
	logDegraded(ctx, s.cache.ClearUser(ctx, userID), "session.cache_clear_degraded")
}
