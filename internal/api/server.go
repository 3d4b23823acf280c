package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lumenlab/glossa/internal/auth"
	"github.com/lumenlab/glossa/internal/config"
	"github.com/lumenlab/glossa/internal/core"
	"github.com/lumenlab/glossa/internal/metrics"
	"github.com/lumenlab/glossa/internal/ratelimit"
	"github.com/lumenlab/glossa/internal/service"
)

type Server struct {
	verifier    *auth.Verifier
	translation *service.TranslationService
	chat        *service.ChatService
	session     *service.SessionService

	gates     gateSet
	collector metrics.Recorder
	registry  *prometheus.Registry
}

// gateSet holds the per-class limiters composed into the request pipeline.
// Windowed limiters are the first line of defense for all traffic; session
// limiters only gate identified callers.
type gateSet struct {
	local *ratelimit.LocalGuard

	windowAPI     ratelimit.Limiter
	windowAuth    ratelimit.Limiter
	windowUpload  ratelimit.Limiter
	windowMessage ratelimit.Limiter

	sessionAPI     ratelimit.Limiter
	sessionUpload  ratelimit.Limiter
	sessionMessage ratelimit.Limiter
}

func newGateSet(limits config.LimitsConfig, counters core.CounterStore) gateSet {
	return gateSet{
		local: ratelimit.NewLocalGuard(limits.Local.RPS, limits.Local.Burst),

		windowAPI: ratelimit.NewWindowed(counters, "api", ratelimit.WindowLimit{
			Window:  limits.API.Window,
			Max:     limits.API.Max,
			Code:    core.CodeRateLimit,
			Message: "Too many requests from this IP, please try again later.",
		}),
		windowAuth: ratelimit.NewWindowed(counters, "auth", ratelimit.WindowLimit{
			Window:  limits.Auth.Window,
			Max:     limits.Auth.Max,
			Code:    core.CodeAuthRateLimit,
			Message: "Too many authentication attempts. Please try again later.",
		}),
		windowUpload: ratelimit.NewWindowed(counters, "upload", ratelimit.WindowLimit{
			Window:  limits.Upload.Window,
			Max:     limits.Upload.Max,
			Code:    core.CodeUploadRateLimit,
			Message: "Too many uploads. Please try again later.",
		}),
		windowMessage: ratelimit.NewWindowed(counters, "message", ratelimit.WindowLimit{
			Window:  limits.Message.Window,
			Max:     limits.Message.Max,
			Code:    core.CodeMessageRateLimit,
			Message: "Sending messages too quickly. Please wait a moment.",
		}),

		sessionAPI:     ratelimit.NewPersistent(counters, "api", limits.Session.API),
		sessionUpload:  ratelimit.NewPersistent(counters, "upload", limits.Session.Upload),
		sessionMessage: ratelimit.NewPersistent(counters, "message", limits.Session.Message),
	}
}

func NewServer(
	cfg *config.Config,
	identities core.IdentityStore,
	counters core.CounterStore,
	translation *service.TranslationService,
	chat *service.ChatService,
	session *service.SessionService,
	collector metrics.Recorder,
	registry *prometheus.Registry,
) *Server {
	if collector == nil {
		collector = metrics.Noop{}
	}

	return &Server{
		verifier:    auth.NewVerifier([]byte(cfg.Auth.Secret), identities),
		translation: translation,
		chat:        chat,
		session:     session,
		gates:       newGateSet(cfg.Limits, counters),
		collector:   collector,
		registry:    registry,
	}
}

// LocalGuard exposes the in-process bucket so serve can start its janitor.
func (s *Server) LocalGuard() *ratelimit.LocalGuard { return s.gates.local }

func (s *Server) metricsHandler() http.Handler {
	if s.registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
}
