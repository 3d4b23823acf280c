package api

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/lumenlab/glossa/internal/api/presenter"
	"github.com/lumenlab/glossa/internal/auth"
)

// handleLogout is the session-end hook: it clears the caller's persistent
// rate counters and cached user state. This is the only path that resets a
// session limiter.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	ident := auth.IdentityFromContext(r.Context())

	s.session.OnSessionEnd(r.Context(), ident.ID)

	log.Ctx(r.Context()).Info().
		Str("user_id", ident.ID).
		Msg("session.ended")

	presenter.Data(w, r, map[string]string{"status": "logged out"}, http.StatusOK)
}
