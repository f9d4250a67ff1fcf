// Package main is the entrypoint for the mailcheck API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aniket3077/mailcheck/internal/api"
	"github.com/aniket3077/mailcheck/internal/api/handler"
	mw "github.com/aniket3077/mailcheck/internal/api/middleware"
	"github.com/aniket3077/mailcheck/internal/api/response"
	"github.com/aniket3077/mailcheck/internal/cache"
	"github.com/aniket3077/mailcheck/internal/config"
	"github.com/aniket3077/mailcheck/internal/store"
	"github.com/aniket3077/mailcheck/internal/verify"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config — fail fast on invalid config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded", "env", cfg.Server.Env, "workers", cfg.Verify.Workers)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Pick the job store: Postgres when configured, in-memory otherwise
	jobStore, cleanup, err := newStore(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer cleanup()

	// 3. Redis cache is optional; without it rate limiting is disabled
	var redisCache cache.Cache
	if cfg.Redis.URL != "" {
		rc, err := cache.NewRedisCache(cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("create redis cache: %w", err)
		}
		defer rc.Close()
		if err := rc.Ping(ctx); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}
		redisCache = rc
		slog.Info("redis connected")
	} else {
		slog.Info("no REDIS_URL set, rate limiting disabled")
	}

	// 4. Build the verification pipeline
	classifier := verify.NewClassifier(verify.DefaultRules())
	batch := verify.NewBatch(classifier, cfg.Verify.Workers, cfg.Verify.CheckTimeout)
	svc := verify.NewService(batch, jobStore, redisCache, cfg.Verify.MaxBatchSize)

	// 5. Build router with dependencies
	var rateLimit *mw.RateLimit
	if redisCache != nil {
		rateLimit = mw.NewRateLimit(redisCache, cfg.Verify.RequestsPerMinute)
	}

	deps := api.Dependencies{
		RateLimit: rateLimit,

		HealthHandler:     healthHandler(jobStore, redisCache),
		VerifyHandler:     handler.NewVerifyHandler(svc),
		VerifyFileHandler: handler.NewVerifyFileHandler(svc),
		GetJobHandler:     handler.NewGetJobHandler(svc),
		ListJobsHandler:   handler.NewListJobsHandler(svc),
	}

	router := api.NewRouter(deps)

	// 6. Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// newStore connects the Postgres store when DATABASE_URL is set and
// falls back to the in-memory store otherwise.
func newStore(ctx context.Context, cfg config.DatabaseConfig) (store.Store, func(), error) {
	if cfg.URL == "" {
		slog.Info("no DATABASE_URL set, using in-memory job store")
		return store.NewMemoryStore(), func() {}, nil
	}

	pool, err := store.Connect(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}

	if err := store.RunMigrations(cfg.URL, "migrations"); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database connected, migrations applied")

	return store.NewPostgresStore(pool), pool.Close, nil
}

// healthHandler checks store and cache connectivity. A nil cache is
// reported as disabled, not degraded.
func healthHandler(s store.Store, c cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"store": "ok",
			"cache": "ok",
		}
		if c == nil {
			checks["cache"] = "disabled"
		}

		if err := s.Ping(r.Context()); err != nil {
			checks["store"] = "degraded"
		}
		if c != nil {
			if err := c.Ping(r.Context()); err != nil {
				checks["cache"] = "degraded"
			}
		}

		degraded := checks["store"] == "degraded" || checks["cache"] == "degraded"
		if degraded {
			response.Error(w, http.StatusServiceUnavailable, "DEGRADED",
				"One or more services degraded", checks)
			return
		}

		response.JSON(w, map[string]any{
			"status":   "ok",
			"services": checks,
		})
	}
}
