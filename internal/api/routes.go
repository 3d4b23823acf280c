package api

import (
	"net/http"

	"github.com/lumenlab/glossa/internal/api/middleware"
)

const (
	HealthCheckRoute = middleware.HealthCheckPath
	AboutRoute       = "/v1/about"
	MetricsRoute     = "/metrics"

	TranslateRoute         = "/v1/translation/translate"
	DetectLanguageRoute    = "/v1/translation/detect-language"
	DocumentTranslateRoute = "/v1/documents/translate"

	SendMessageRoute        = "/v1/chat/conversations/{conversationId}/messages"
	SharedConversationRoute = "/v1/chat/shared/{conversationId}"

	LogoutRoute = "/v1/auth/logout"
)

// Routes composes the gatekeeper pipeline: recover -> correlation ->
// logging, then per route auth -> rate gates -> handler. Only a handler
// that passed identity and rate checks ever reaches the backend, and only
// on a cache miss.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	authed := middleware.Auth(s.verifier, s.collector)
	optional := middleware.OptionalAuth(s.verifier)

	localGate := middleware.Gate{Limiter: s.gates.local, Scope: middleware.ScopeIP}

	apiGates := middleware.RateLimit(s.collector,
		localGate,
		middleware.Gate{Limiter: s.gates.windowAPI, Scope: middleware.ScopeIP},
		middleware.Gate{Limiter: s.gates.sessionAPI, Scope: middleware.ScopeUserOnly},
	)
	uploadGates := middleware.RateLimit(s.collector,
		localGate,
		middleware.Gate{Limiter: s.gates.windowUpload, Scope: middleware.ScopeUser},
		middleware.Gate{Limiter: s.gates.sessionUpload, Scope: middleware.ScopeUserOnly},
	)
	messageGates := middleware.RateLimit(s.collector,
		localGate,
		middleware.Gate{Limiter: s.gates.windowMessage, Scope: middleware.ScopeUser},
		middleware.Gate{Limiter: s.gates.sessionMessage, Scope: middleware.ScopeUserOnly},
	)
	authGates := middleware.RateLimit(s.collector,
		localGate,
		middleware.Gate{Limiter: s.gates.windowAuth, Scope: middleware.ScopeIP},
	)
	anonGates := middleware.RateLimit(s.collector,
		localGate,
		middleware.Gate{Limiter: s.gates.windowAPI, Scope: middleware.ScopeIP},
	)

	// public routes
	mux.HandleFunc("GET "+HealthCheckRoute, s.handleHealth)
	mux.HandleFunc("GET "+AboutRoute, s.handleAbout)
	mux.Handle("GET "+MetricsRoute, s.metricsHandler())

	// translation
	mux.Handle("POST "+TranslateRoute,
		authed(apiGates(http.HandlerFunc(s.handleTranslate))))
	mux.Handle("POST "+DetectLanguageRoute,
		authed(apiGates(http.HandlerFunc(s.handleDetectLanguage))))
	mux.Handle("POST "+DocumentTranslateRoute,
		authed(uploadGates(http.HandlerFunc(s.handleDocumentTranslate))))

	// chat
	mux.Handle("POST "+SendMessageRoute,
		authed(messageGates(http.HandlerFunc(s.handleSendMessage))))
	mux.Handle("GET "+SharedConversationRoute,
		optional(anonGates(http.HandlerFunc(s.handleSharedConversation))))

	// session end
	mux.Handle("POST "+LogoutRoute,
		authed(authGates(http.HandlerFunc(s.handleLogout))))

	return middleware.RecoverMiddleware(
		middleware.CorrelationIDMiddleware(
			middleware.LoggingMiddleware(
				mux)))
}
