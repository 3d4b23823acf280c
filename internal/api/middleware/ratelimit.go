package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/lumenlab/glossa/internal/api/presenter"
	"github.com/lumenlab/glossa/internal/auth"
	"github.com/lumenlab/glossa/internal/metrics"
	"github.com/lumenlab/glossa/internal/ratelimit"
)

// ScopeFunc extracts the limiter scope from a request. Returning "" skips
// the gate for this request (e.g. user-scoped limiters on anonymous
// traffic).
type ScopeFunc func(r *http.Request) string

// ScopeIP keys by client IP: first X-Forwarded-For entry when present,
// RemoteAddr host otherwise.
func ScopeIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}

// ScopeUser keys by authenticated user id, falling back to IP for
// anonymous callers.
func ScopeUser(r *http.Request) string {
	if ident := auth.IdentityFromContext(r.Context()); ident != nil {
		return ident.ID
	}
	return ScopeIP(r)
}

// ScopeUserOnly keys by user id and skips the gate entirely for anonymous
// callers. Used by the session limiters, which only gate identified users.
func ScopeUserOnly(r *http.Request) string {
	if ident := auth.IdentityFromContext(r.Context()); ident != nil {
		return ident.ID
	}
	return ""
}

// Gate binds one limiter to a scope extraction rule.
type Gate struct {
	Limiter ratelimit.Limiter
	Scope   ScopeFunc
}

// RateLimit applies gates in order; the first rejection short-circuits the
// request with 429. Must run after the auth middleware on routes whose
// gates are user-scoped.
func RateLimit(recorder metrics.Recorder, gates ...Gate) func(http.Handler) http.Handler {
	if recorder == nil {
		recorder = metrics.Noop{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, gate := range gates {
				scope := gate.Scope(r)
				if scope == "" {
					continue
				}

				dec := gate.Limiter.Check(r.Context(), scope)
				if dec.Degraded {
					recorder.Degraded("ratelimit:" + gate.Limiter.Name())
				}
				if dec.Allowed {
					continue
				}

				recorder.RateRejection(gate.Limiter.Name())
				retryAfter := int64(dec.RetryAfter.Seconds())
				if retryAfter > 0 {
					w.Header().Set("Retry-After", strconv.FormatInt(retryAfter, 10))
				}
				presenter.Reject(w, r, http.StatusTooManyRequests, dec.Message, dec.Code, retryAfter)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
