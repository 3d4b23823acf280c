package middleware

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/lumenlab/glossa/internal/api/presenter"
	"github.com/lumenlab/glossa/internal/auth"
	"github.com/lumenlab/glossa/internal/core"
	"github.com/lumenlab/glossa/internal/metrics"
)

// Auth verifies the bearer credential and attaches the resolved identity
// to the request context. Any failure aborts the request with 401 and the
// specific rejection code.
func Auth(verifier *auth.Verifier, recorder metrics.Recorder) func(http.Handler) http.Handler {
	if recorder == nil {
		recorder = metrics.Noop{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, err := verifier.Verify(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				code := auth.Code(err)
				if code == core.CodeAuthError {
					// Lookup failures etc. are our problem, not the caller's.
					log.Ctx(r.Context()).Error().Err(err).Msg("auth.verification_failed")
					err = errors.New("authentication failed")
				}
				recorder.AuthFailure(code)
				presenter.Reject(w, r, http.StatusUnauthorized, err.Error(), code, 0)
				return
			}

			log.Ctx(r.Context()).Debug().
				Str("user_id", ident.ID).
				Str("email", ident.Email).
				Msg("user authenticated")

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), ident)))
		})
	}
}

// OptionalAuth attaches an identity when a valid credential is present and
// silently proceeds anonymously otherwise. It never aborts the request;
// handlers behind it must tolerate a nil identity.
func OptionalAuth(verifier *auth.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, err := verifier.Verify(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), ident)))
		})
	}
}
