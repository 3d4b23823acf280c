// Package ratelimit implements the two limiting strategies guarding the
// compute backend: a fixed-window counter for anonymous (IP-scoped) traffic
// and a per-login-session counter for authenticated users. Both rely on the
// shared counter store's atomic increment; neither takes in-process locks.
package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of a limiter check.
type Decision struct {
	Allowed bool

	// Code is the machine-readable rejection code when not allowed.
	Code string

	// Message is the human-readable rejection message when not allowed.
	Message string

	// RetryAfter is the recommended wait before the caller retries.
	// Zero when no recommendation can be computed (session limits clear on
	// logout, not after a delay).
	RetryAfter time.Duration

	// Degraded marks a check that was allowed only because the backing
	// store was unreachable.
	Degraded bool
}

var allow = Decision{Allowed: true}

// Limiter decides whether the given scope (an IP or a user id) may proceed.
// Implementations must fail open: when the backing store is unreachable the
// request is allowed and the outage is logged, never surfaced to the caller.
type Limiter interface {
	Name() string
	Check(ctx context.Context, scope string) Decision
}
