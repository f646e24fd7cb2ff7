package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	_ "brandae-leads-api/docs"
	"brandae-leads-api/internal/api"
	"brandae-leads-api/internal/api/handlers"
	"brandae-leads-api/internal/auth"
	"brandae-leads-api/internal/config"
	"brandae-leads-api/internal/db"
	"brandae-leads-api/internal/lead"
	"brandae-leads-api/internal/logging"
	"brandae-leads-api/internal/metrics"
	"brandae-leads-api/internal/webhook"
)

const (
	shutdownTimeout = 15 * time.Second
	sweepInterval   = time.Minute
	limiterIdle     = 10 * time.Minute
)

// app is the wired server plus what must be released on shutdown.
type app struct {
	handler    http.Handler
	db         *sql.DB
	dispatcher *webhook.Dispatcher
	limiter    *api.IPRateLimiter
}

func (a *app) Close() {
	a.dispatcher.Close()
	if err := a.db.Close(); err != nil {
		log.Warn().Err(err).Msg("Database close failed")
	}
}

func openDatabase(cfg config.Config) (*sql.DB, error) {
	if cfg.DBPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	log.Info().Str("db_path", cfg.DBPath).Msg("Opening database")
	return db.OpenMigrated(cfg.DBPath)
}

func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	metrics.Register()

	limiter := api.NewIPRateLimiter(cfg.RateLimit.RequestsPerSec, cfg.RateLimit.Burst)
	if err := limiter.TrustProxies(cfg.RateLimit.TrustedProxies); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	database, err := openDatabase(cfg)
	if err != nil {
		return nil, err
	}

	// Webhook layer
	whRepo := &webhook.SQLiteRepo{DB: database}
	dispatcher := webhook.NewDispatcher(whRepo, webhook.Options{
		Secret:         cfg.Webhooks.Secret,
		Timeout:        time.Duration(cfg.Webhooks.TimeoutSec) * time.Second,
		MaxConcurrency: cfg.Webhooks.MaxConcurrency,
	})

	// Lead layer
	leadSvc := &lead.Service{
		Repo:     &lead.SQLiteRepo{DB: database},
		Notifier: dispatcher,
		Async:    cfg.Webhooks.Async,
	}

	authHandler := auth.Auth{AdminKey: cfg.AdminKey}
	if cfg.OIDC.Enabled {
		log.Info().Str("issuer", cfg.OIDC.IssuerURL).Msg("Initializing OIDC authentication")
		verifier, err := auth.NewOIDCVerifier(ctx,
			cfg.OIDC.IssuerURL,
			cfg.OIDC.ClientID,
			cfg.OIDC.Audience,
			cfg.OIDC.AdminRole,
		)
		if err != nil {
			log.Warn().
				Err(err).
				Msg("OIDC enabled but failed to initialize, falling back to API key authentication only")
		} else {
			authHandler.OIDCEnabled = true
			authHandler.OIDCVerifier = verifier
			log.Info().
				Str("issuer", cfg.OIDC.IssuerURL).
				Str("client_id", cfg.OIDC.ClientID).
				Str("admin_role", cfg.OIDC.AdminRole).
				Msg("OIDC authentication enabled")
		}
	}
	if cfg.AdminKey == "" && !authHandler.OIDCEnabled {
		log.Warn().Msg("No admin key or OIDC configured, admin endpoints will reject every request")
	}

	router := api.NewRouter(api.Handlers{
		Leads:       &handlers.LeadHandler{Service: leadSvc},
		Submissions: &handlers.SubmissionHandler{Auth: authHandler, Service: leadSvc},
		Webhooks:    &handlers.WebhookHandler{Auth: authHandler, Repo: whRepo},
		Health:      &handlers.HealthHandler{DB: database},
		Limiter:     limiter,
	})

	// CORS inside the logger so preflights get a request id and an access line
	handler := api.CORSMiddleware(cfg.CORS.AllowedOrigins, router)
	handler = logging.HTTPLogger(handler)

	return &app{
		handler:    handler,
		db:         database,
		dispatcher: dispatcher,
		limiter:    limiter,
	}, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log.Info().
		Str("version", version).
		Str("listen_addr", cfg.ListenAddr).
		Msg("Brandae Leads API starting")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.limiter != nil {
		go sweepLimiter(ctx, a.limiter)
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("listen_addr", cfg.ListenAddr).Msg("Brandae Leads API listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

func sweepLimiter(ctx context.Context, l *api.IPRateLimiter) {
	t := time.NewTicker(sweepInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			l.Sweep(limiterIdle)
		}
	}
}

func runMigrate(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	return database.Close()
}
