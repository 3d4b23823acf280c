package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/lumenlab/glossa/internal/core"
)

const bearerPrefix = "Bearer "

var (
	ErrNoToken       = errors.New("authentication required, no token provided")
	ErrInvalidFormat = errors.New("invalid token format, use: Bearer <token>")
	ErrMissingToken  = errors.New("token is missing")
	ErrTokenExpired  = errors.New("token has expired")
	ErrInvalidToken  = errors.New("invalid token")
	ErrUserNotFound  = errors.New("user not found, token may be stale")
)

// Code maps a verification error to its wire rejection code.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrNoToken):
		return core.CodeNoToken
	case errors.Is(err, ErrInvalidFormat):
		return core.CodeInvalidFormat
	case errors.Is(err, ErrMissingToken):
		return core.CodeMissingToken
	case errors.Is(err, ErrTokenExpired):
		return core.CodeTokenExpired
	case errors.Is(err, ErrInvalidToken):
		return core.CodeInvalidToken
	case errors.Is(err, ErrUserNotFound):
		return core.CodeUserNotFound
	default:
		return core.CodeAuthError
	}
}

// Claims is the expected shape of an access token.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// Verifier validates bearer credentials and resolves them to identities.
type Verifier struct {
	secret     []byte
	identities core.IdentityStore
}

func NewVerifier(secret []byte, identities core.IdentityStore) *Verifier {
	return &Verifier{secret: secret, identities: identities}
}

// Verify takes the raw Authorization header value, validates the embedded
// token and resolves the subject to an Identity. All failures are one of
// the sentinel errors above; the credential itself is never stored.
func (v *Verifier) Verify(ctx context.Context, authorization string) (*core.Identity, error) {
	if authorization == "" {
		return nil, ErrNoToken
	}
	if !strings.HasPrefix(authorization, bearerPrefix) {
		return nil, ErrInvalidFormat
	}

	tokenStr := strings.TrimPrefix(authorization, bearerPrefix)
	if tokenStr == "" {
		return nil, ErrMissingToken
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	subject := claims.UserID
	if subject == "" {
		subject = claims.Subject
	}
	if subject == "" {
		return nil, ErrInvalidToken
	}

	ident, err := v.identities.FindByID(ctx, subject)
	if err != nil {
		if errors.Is(err, core.ErrIdentityNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("resolving identity: %w", err)
	}
	return ident, nil
}
