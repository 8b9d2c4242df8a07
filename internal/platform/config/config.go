// Copyright (c) 2026 Slate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

The same configuration is shared by the API server (cmd/api) and the operator
CLI (cmd/slatectl), so both talk to the same option backend.
*/
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Enumerations

// Option backends.
const (
	BackendUpstream = "upstream"
	BackendPostgres = "postgres"
)

// Lock stores.
const (
	LockStoreMemory   = "memory"
	LockStoreRedis    = "redis"
	LockStoreUpstream = "upstream"
)

// Missing-dates policies.
const (
	MissingDatesFlexible = "flexible"
	MissingDatesEmpty    = "empty"
)

// # Configuration Schema

// Config holds all runtime configuration for Slate.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// OptionBackend selects where options live: the existing pre-production
	// backend ("upstream") or a local PostgreSQL database ("postgres").
	OptionBackend string `env:"OPTION_BACKEND" envDefault:"upstream"`

	// UpstreamURL is the base URL of the pre-production backend.
	UpstreamURL string `env:"UPSTREAM_URL"`

	// RegistryTimeout bounds each network-bound registry operation.
	RegistryTimeout time.Duration `env:"REGISTRY_TIMEOUT" envDefault:"10s"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL"`

	// LockStore selects where lock state is persisted.
	LockStore string `env:"LOCK_STORE" envDefault:"memory"`

	// LockTTL expires persisted locks; zero keeps them until toggled off.
	LockTTL time.Duration `env:"LOCK_TTL" envDefault:"0s"`

	// MissingDates decides how an option without any dates text is read.
	MissingDates string `env:"MISSING_DATES" envDefault:"flexible"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct and validates it.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate enforces the cross-field requirements env tags cannot express.
func (c *Config) Validate() error {
	switch c.OptionBackend {
	case BackendUpstream:
		if c.UpstreamURL == "" {
			return fmt.Errorf("config: UPSTREAM_URL is required when OPTION_BACKEND=%s", BackendUpstream)
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config: DATABASE_URL is required when OPTION_BACKEND=%s", BackendPostgres)
		}
	default:
		return fmt.Errorf("config: unknown OPTION_BACKEND %q", c.OptionBackend)
	}

	switch c.LockStore {
	case LockStoreMemory:
	case LockStoreRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("config: REDIS_URL is required when LOCK_STORE=%s", LockStoreRedis)
		}
	case LockStoreUpstream:
		if c.UpstreamURL == "" {
			return fmt.Errorf("config: UPSTREAM_URL is required when LOCK_STORE=%s", LockStoreUpstream)
		}
	default:
		return fmt.Errorf("config: unknown LOCK_STORE %q", c.LockStore)
	}

	if c.MissingDates != MissingDatesFlexible && c.MissingDates != MissingDatesEmpty {
		return fmt.Errorf("config: unknown MISSING_DATES %q", c.MissingDates)
	}

	if c.RegistryTimeout <= 0 {
		return fmt.Errorf("config: REGISTRY_TIMEOUT must be positive")
	}

	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedOrigins returns the trimmed, non-empty entries of EXTRA_ORIGINS.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.ExtraOrigins, ",") {
		if clean := strings.TrimSpace(origin); clean != "" {
			origins = append(origins, clean)
		}
	}
	return origins
}
