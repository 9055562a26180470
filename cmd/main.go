// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Shivanand-hulikatti/sports-team-manager/internal/config"
	"github.com/Shivanand-hulikatti/sports-team-manager/internal/database"
	"github.com/Shivanand-hulikatti/sports-team-manager/internal/handler"
	"github.com/Shivanand-hulikatti/sports-team-manager/internal/metrics"
	"github.com/Shivanand-hulikatti/sports-team-manager/internal/repository"
	"github.com/Shivanand-hulikatti/sports-team-manager/internal/repository/memstore"
	"github.com/Shivanand-hulikatti/sports-team-manager/internal/service"
)

// stores is the set of repositories the services run on.
type stores struct {
	events    service.EventStore
	users     service.UserStore
	sessions  service.SessionStore
	teams     service.TeamStore
	trainings service.TrainingStore
	close     func()
}

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── 1. Configuration & logging ────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	log.Logger = logger

	// ── 2. Storage ────────────────────────────────────────────────────────
	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.close()

	// ── 3. Wire up layers ─────────────────────────────────────────────────
	clock := clockwork.NewRealClock()
	prom := metrics.NewPrometheus()

	eventSvc := service.NewEventService(st.events, st.users, clock, prom, logger)
	authSvc := service.NewAuthService(st.users, st.sessions, clock, cfg.SessionTTL, logger)
	teamSvc := service.NewTeamService(st.teams, st.trainings, st.users, clock, logger)
	playerSvc := service.NewPlayerService(st.users, st.teams, st.events, clock, logger)

	if cfg.Admin.Email != "" {
		if err := authSvc.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			return err
		}
	}

	sweeper := service.NewSessionSweeper(st.sessions, clock, cfg.SweepInterval, prom, logger)
	if err := sweeper.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := sweeper.Stop(); err != nil {
			logger.Warn().Err(err).Msg("stop session sweeper")
		}
	}()

	// ── 4. Build the router ───────────────────────────────────────────────
	router := handler.NewRouter(handler.RouterConfig{
		Events:         eventSvc,
		Auth:           authSvc,
		Teams:          teamSvc,
		Players:        playerSvc,
		Metrics:        prom,
		Logger:         logger,
		AllowedOrigins: cfg.AllowedOrigin,
		Cookie:         handler.CookieOptions{Secure: cfg.CookieSecure, TTL: cfg.SessionTTL},
		WebDir:         cfg.WebDir,
	})

	// ── 5. Start server with graceful shutdown ────────────────────────────
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Str("store", cfg.StoreDriver).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var logger zerolog.Logger
	if cfg.LogConsole {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		logger = zerolog.New(os.Stderr)
	}
	return logger.With().Timestamp().Str("service", "sports-team-manager").Logger()
}

func openStores(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*stores, error) {
	if cfg.StoreDriver == config.StoreMemory {
		logger.Warn().Msg("using in-memory store; data is lost on restart")
		m := memstore.New()
		return &stores{
			events:    m.Events,
			users:     m.Users,
			sessions:  m.Sessions,
			teams:     m.Teams,
			trainings: m.Trainings,
			close:     func() {},
		}, nil
	}

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	if err := database.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	logger.Info().Str("host", cfg.Database.Host).Str("db", cfg.Database.Name).Msg("connected to postgres")

	return &stores{
		events:    repository.NewEventRepository(pool),
		users:     repository.NewUserRepository(pool),
		sessions:  repository.NewSessionRepository(pool),
		teams:     repository.NewTeamRepository(pool),
		trainings: repository.NewTrainingRepository(pool),
		close:     pool.Close,
	}, nil
}
