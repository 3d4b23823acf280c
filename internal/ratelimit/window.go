package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lumenlab/glossa/internal/core"
)

// WindowedLimiter enforces a fixed window: at most Max requests per Window
// for each scope. The window resets implicitly when the counter's TTL
// lapses; there is no explicit reset path. Each limiter class owns its key
// namespace, so exhausting one class does not affect another.
type WindowedLimiter struct {
	store   core.CounterStore
	name    string
	window  time.Duration
	max     int64
	code    string
	message string
}

func NewWindowed(store core.CounterStore, name string, limit WindowLimit) *WindowedLimiter {
	code := limit.Code
	if code == "" {
		code = core.CodeRateLimit
	}
	message := limit.Message
	if message == "" {
		message = "Too many requests. Please try again later."
	}
	return &WindowedLimiter{
		store:   store,
		name:    name,
		window:  limit.Window,
		max:     limit.Max,
		code:    code,
		message: message,
	}
}

// WindowLimit bundles the parameters of one windowed limiter class.
type WindowLimit struct {
	Window  time.Duration
	Max     int64
	Code    string
	Message string
}

func (l *WindowedLimiter) Name() string { return l.name }

func (l *WindowedLimiter) key(scope string) string {
	return fmt.Sprintf("ratelimit:window:%s:%s", l.name, scope)
}

func (l *WindowedLimiter) Check(ctx context.Context, scope string) Decision {
	count, ttl, err := l.store.IncrWindow(ctx, l.key(scope), l.window)
	if err != nil {
		// Fail open: an unreachable store must not block all traffic.
		log.Ctx(ctx).Warn().Err(err).
			Str("limiter", l.name).
			Str("scope", scope).
			Msg("ratelimit.degraded")
		return Decision{Allowed: true, Degraded: true}
	}

	if count > l.max {
		return Decision{
			Code:       l.code,
			Message:    l.message,
			RetryAfter: ttl,
		}
	}
	return allow
}
