package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/lumenlab/glossa/internal/api"
	"github.com/lumenlab/glossa/internal/backend"
	"github.com/lumenlab/glossa/internal/cache"
	"github.com/lumenlab/glossa/internal/config"
	"github.com/lumenlab/glossa/internal/core"
	"github.com/lumenlab/glossa/internal/metrics"
	"github.com/lumenlab/glossa/internal/service"
	"github.com/lumenlab/glossa/internal/store"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Glossa gateway",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if addr != "" {
			cfg.Server.Addr = addr
		}

		registry := prometheus.NewRegistry()
		collector := metrics.NewCollector(registry)

		counters := buildCounterStore(cfg)

		identities, closeIdentities, err := buildIdentityStore(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("building identity store: %w", err)
		}
		defer closeIdentities()

		responseCache := cache.New(counters, cache.TTLs{
			User:         cfg.Cache.UserTTL,
			Conversation: cfg.Cache.ConversationTTL,
			AI:           cfg.Cache.AITTL,
			Translation:  cfg.Cache.TranslationTTL,
		}, collector)

		backendClient := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, collector)

		srv := api.NewServer(
			cfg,
			identities,
			counters,
			service.NewTranslationService(responseCache, backendClient),
			service.NewChatService(responseCache, backendClient),
			service.NewSessionService(counters, responseCache),
			collector,
			registry,
		)

		janitorCtx, cancelJanitor := context.WithCancel(context.Background())
		defer cancelJanitor()
		srv.LocalGuard().StartJanitor(janitorCtx)

		server := &http.Server{
			Addr:    cfg.Server.Addr,
			Handler: srv.Routes(),
		}

		go func() {
			log.Info().Msgf("Starting server on %s...", cfg.Server.Addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal().Err(err).Msg("Server crashed")
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info().Msg("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}

		log.Info().Msg("Server exited")
		return nil
	},
}

// buildCounterStore returns the Redis-backed store, or the in-process one
// when no Redis address is configured.
func buildCounterStore(cfg *config.Config) core.CounterStore {
	if cfg.Redis.Addr == "" {
		log.Warn().Msg("no redis configured, using in-process counters and cache")
		return store.NewMemoryStore()
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	return store.NewRedisStore(rdb)
}

func buildIdentityStore(ctx context.Context, cfg *config.Config) (core.IdentityStore, func(), error) {
	if cfg.Postgres.DSN == "" {
		if len(cfg.Auth.StaticIdentities) == 0 {
			return nil, nil, fmt.Errorf("either postgres.dsn or auth.static_identities must be configured")
		}
		log.Warn().Msg("no postgres configured, using static identities")
		return store.NewMemoryIdentityStore(cfg.Auth.StaticIdentities...), func() {}, nil
	}

	pg, err := store.NewPostgresIdentityStore(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, nil, err
	}
	return pg, pg.Close, nil
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "address to listen on (overrides config)")
}
