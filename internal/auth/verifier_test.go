package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/go-cmp/cmp"

	"github.com/lumenlab/glossa/internal/core"
	"github.com/lumenlab/glossa/internal/store"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, secret []byte, userID string, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	signed, err := token.SignedString(secret)
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

func TestVerify(t *testing.T) {
	alice := core.Identity{ID: "u1", Email: "alice@example.com", Name: "Alice", Provider: "google"}
	identities := store.NewMemoryIdentityStore(alice)
	v := NewVerifier(testSecret, identities)

	valid := "Bearer " + signToken(t, testSecret, "u1", time.Now().Add(time.Hour))

	tests := []struct {
		name          string
		authorization string
		wantErr       error
		wantCode      string
	}{
		{
			name:          "no header",
			authorization: "",
			wantErr:       ErrNoToken,
			wantCode:      core.CodeNoToken,
		},
		{
			name:          "wrong scheme",
			authorization: "Basic abc123",
			wantErr:       ErrInvalidFormat,
			wantCode:      core.CodeInvalidFormat,
		},
		{
			name:          "empty token",
			authorization: "Bearer ",
			wantErr:       ErrMissingToken,
			wantCode:      core.CodeMissingToken,
		},
		{
			name:          "wrong secret",
			authorization: "Bearer " + signToken(t, []byte("other-secret"), "u1", time.Now().Add(time.Hour)),
			wantErr:       ErrInvalidToken,
			wantCode:      core.CodeInvalidToken,
		},
		{
			name:          "expired",
			authorization: "Bearer " + signToken(t, testSecret, "u1", time.Now().Add(-time.Hour)),
			wantErr:       ErrTokenExpired,
			wantCode:      core.CodeTokenExpired,
		},
		{
			name:          "garbage token",
			authorization: "Bearer not.a.jwt",
			wantErr:       ErrInvalidToken,
			wantCode:      core.CodeInvalidToken,
		},
		{
			name:          "deleted user",
			authorization: "Bearer " + signToken(t, testSecret, "ghost", time.Now().Add(time.Hour)),
			wantErr:       ErrUserNotFound,
			wantCode:      core.CodeUserNotFound,
		},
		{
			name:          "valid",
			authorization: valid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ident, err := v.Verify(context.Background(), tt.authorization)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Verify() error = %v, want %v", err, tt.wantErr)
				}
				if got := Code(err); got != tt.wantCode {
					t.Errorf("Code() = %q, want %q", got, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("Verify() unexpected error: %v", err)
			}
			if diff := cmp.Diff(&alice, ident); diff != "" {
				t.Errorf("identity mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestVerifyRejectsNonHMACAlg(t *testing.T) {
	// alg=none must never validate.
	token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "u1"})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}

	v := NewVerifier(testSecret, store.NewMemoryIdentityStore())
	if _, err := v.Verify(context.Background(), "Bearer "+signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Verify() error = %v, want %v", err, ErrInvalidToken)
	}
}

func TestIdentityContext(t *testing.T) {
	ctx := context.Background()
	if got := IdentityFromContext(ctx); got != nil {
		t.Fatalf("IdentityFromContext() on empty context = %v, want nil", got)
	}

	ident := &core.Identity{ID: "u1"}
	ctx = WithIdentity(ctx, ident)
	if got := IdentityFromContext(ctx); got != ident {
		t.Fatalf("IdentityFromContext() = %v, want %v", got, ident)
	}
}
