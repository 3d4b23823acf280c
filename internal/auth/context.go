package auth

import (
	"context"

	"github.com/lumenlab/glossa/internal/core"
)

type contextKey struct{}

// WithIdentity attaches the resolved identity to the request context.
func WithIdentity(ctx context.Context, ident *core.Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, ident)
}

// IdentityFromContext returns the identity attached by the auth middleware,
// or nil for anonymous requests on optional-auth routes.
func IdentityFromContext(ctx context.Context) *core.Identity {
	ident, _ := ctx.Value(contextKey{}).(*core.Identity)
	return ident
}
