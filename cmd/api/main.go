// Copyright (c) 2026 Slate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Slate HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Open dependencies (option backend, lock store, migrations).
//  4. Wire services and HTTP handlers.
//  5. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/slate/internal/api"
	"github.com/taibuivan/slate/internal/bootstrap"
	"github.com/taibuivan/slate/internal/core/availability"
	"github.com/taibuivan/slate/internal/core/lock"
	"github.com/taibuivan/slate/internal/core/option"
	"github.com/taibuivan/slate/internal/platform/config"
	"github.com/taibuivan/slate/internal/platform/constants"
	pgstore "github.com/taibuivan/slate/internal/platform/postgres"
	redisstore "github.com/taibuivan/slate/internal/platform/redis"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("[Slate] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. Dependencies ───────────────────────────────────────────────────
	deps, err := bootstrap.Open(startupCtx, cfg, log, bootstrap.Options{
		HTTPClient: &http.Client{Timeout: cfg.RegistryTimeout},
	})
	must(log, err, "open dependencies")
	defer func() {
		log.Info("closing_dependencies")
		deps.Close()
	}()

	// ── 4. Health handlers (wired with real dependency checkers) ──────────
	health := api.HealthDependencies{}
	if deps.Pool != nil {
		health.CheckDatabase = func() error { return pgstore.Ping(context.Background(), deps.Pool) }
	}
	if deps.Redis != nil {
		health.CheckCache = func() error { return redisstore.Ping(context.Background(), deps.Redis) }
	}
	if deps.Upstream != nil {
		health.CheckUpstream = func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return deps.Upstream.Ping(ctx)
		}
	}
	liveness, readiness := api.NewHealthHandlers(health, log)

	// ── 5. Domain Wiring ──────────────────────────────────────────────────
	registry, coordinator := deps.Services(cfg, log)

	handlers := api.Handlers{
		Liveness:     liveness,
		Readiness:    readiness,
		Options:      option.NewHandler(registry, deps.Parser),
		Locks:        lock.NewHandler(coordinator),
		Availability: availability.NewHandler(deps.Parser),
	}

	// ── 6. HTTP Server ────────────────────────────────────────────────────
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, handlers)

	// ── 7. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting_down_server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

// newLogger builds the JSON logger tagged with the application name.
func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned and
// handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
