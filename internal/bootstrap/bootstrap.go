// Copyright (c) 2026 Slate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package bootstrap turns a [config.Config] into the live dependencies shared by
the API server and the slatectl command.

# Startup Sequence

 1. Connect to PostgreSQL and run migrations (OPTION_BACKEND=postgres).
 2. Connect to Redis (LOCK_STORE=redis).
 3. Build the upstream client (UPSTREAM_URL set).
 4. Build the option repository and the lock store.

Every opened connection is closed by [Deps.Close], in reverse order.
*/
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/slate/internal/core/availability"
	"github.com/taibuivan/slate/internal/core/lock"
	"github.com/taibuivan/slate/internal/core/option"
	"github.com/taibuivan/slate/internal/platform/config"
	"github.com/taibuivan/slate/internal/platform/migration"
	pgstore "github.com/taibuivan/slate/internal/platform/postgres"
	redisstore "github.com/taibuivan/slate/internal/platform/redis"
	"github.com/taibuivan/slate/internal/platform/upstream"
)

// Deps holds the live dependencies built from configuration.
type Deps struct {
	Parser     availability.Parser
	Repository option.Repository
	LockStore  lock.Store

	// Optional connections, nil when the configuration does not need them.
	Pool     *pgxpool.Pool
	Redis    *redis.Client
	Upstream *upstream.Client

	closers []func()
}

// Options tunes [Open].
type Options struct {
	// SkipMigrations leaves the schema untouched (used by the CLI).
	SkipMigrations bool

	// HTTPClient overrides the client used for the scheduling backend.
	HTTPClient *http.Client
}

// Parser builds the availability parser configured by MISSING_DATES.
func Parser(cfg *config.Config) (availability.Parser, error) {
	policy, err := availability.ParseMissingPolicy(cfg.MissingDates)
	if err != nil {
		return availability.Parser{}, fmt.Errorf("bootstrap: %w", err)
	}
	return availability.Parser{Missing: policy}, nil
}

/*
Open connects everything cfg asks for.

On error every connection opened so far is closed again.
*/
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts Options) (deps *Deps, err error) {
	deps = &Deps{}
	defer func() {
		if err != nil {
			deps.Close()
			deps = nil
		}
	}()

	if deps.Parser, err = Parser(cfg); err != nil {
		return deps, err
	}

	if cfg.UpstreamURL != "" {
		httpClient := opts.HTTPClient
		if httpClient == nil {
			httpClient = &http.Client{}
		}
		if deps.Upstream, err = upstream.NewClient(cfg.UpstreamURL, httpClient); err != nil {
			return deps, err
		}
	}

	switch cfg.OptionBackend {
	case config.BackendPostgres:
		if deps.Pool, err = pgstore.NewPool(ctx, cfg.DatabaseURL, cfg.RegistryTimeout, logger); err != nil {
			return deps, fmt.Errorf("bootstrap: connect to postgres: %w", err)
		}
		deps.closers = append(deps.closers, deps.Pool.Close)

		if !opts.SkipMigrations {
			if err = migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, logger); err != nil {
				return deps, fmt.Errorf("bootstrap: run migrations: %w", err)
			}
		}
		deps.Repository = option.NewPostgresRepository(deps.Pool, deps.Parser)

	default:
		if deps.Upstream == nil {
			return deps, fmt.Errorf("bootstrap: UPSTREAM_URL is required for OPTION_BACKEND=%s", cfg.OptionBackend)
		}
		deps.Repository = option.NewUpstreamRepository(deps.Upstream, deps.Parser)
	}

	switch cfg.LockStore {
	case config.LockStoreRedis:
		if deps.Redis, err = redisstore.NewClient(ctx, cfg.RedisURL, logger); err != nil {
			return deps, fmt.Errorf("bootstrap: connect to redis: %w", err)
		}
		client := deps.Redis
		deps.closers = append(deps.closers, func() { _ = client.Close() })
		deps.LockStore = lock.NewRedisStore(deps.Redis, cfg.LockTTL)

	case config.LockStoreUpstream:
		if deps.Upstream == nil {
			return deps, fmt.Errorf("bootstrap: UPSTREAM_URL is required for LOCK_STORE=%s", cfg.LockStore)
		}
		deps.LockStore = lock.NewUpstreamStore(deps.Upstream)

	default:
		deps.LockStore = lock.NopStore{}
	}

	logger.Info("dependencies_ready",
		slog.String("option_backend", cfg.OptionBackend),
		slog.String("lock_store", cfg.LockStore),
		slog.String("missing_dates", cfg.MissingDates),
	)

	return deps, nil
}

// Close releases every connection, newest first.
func (deps *Deps) Close() {
	if deps == nil {
		return
	}
	for i := len(deps.closers) - 1; i >= 0; i-- {
		deps.closers[i]()
	}
	deps.closers = nil
}

// Services builds the option registry and the lock coordinator, wired to each other.
func (deps *Deps) Services(cfg *config.Config, logger *slog.Logger) (*option.Registry, *lock.Coordinator) {
	registry := option.NewRegistry(deps.Repository, logger, cfg.RegistryTimeout)
	coordinator := lock.NewCoordinator(registry, deps.LockStore, logger, cfg.RegistryTimeout)
	registry.AttachLocks(coordinator)
	return registry, coordinator
}
