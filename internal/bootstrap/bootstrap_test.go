// Copyright (c) 2026 Slate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package bootstrap_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/slate/internal/bootstrap"
	"github.com/taibuivan/slate/internal/core/availability"
	"github.com/taibuivan/slate/internal/core/lock"
	"github.com/taibuivan/slate/internal/core/option"
	"github.com/taibuivan/slate/internal/platform/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

/*
TestOpen_UpstreamBackend wires the upstream repository and store without any database.
*/
func TestOpen_UpstreamBackend(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_, _ = writer.Write([]byte(`[{"id":"o1","name":"Jane","locked":true}]`))
	}))
	defer backend.Close()

	cfg := &config.Config{
		OptionBackend:   config.BackendUpstream,
		UpstreamURL:     backend.URL,
		LockStore:       config.LockStoreUpstream,
		MissingDates:    config.MissingDatesEmpty,
		RegistryTimeout: time.Second,
	}

	deps, err := bootstrap.Open(context.Background(), cfg, discardLogger(), bootstrap.Options{HTTPClient: backend.Client()})
	require.NoError(t, err)
	defer deps.Close()

	assert.Equal(t, availability.MissingEmpty, deps.Parser.Missing)
	assert.IsType(t, &option.UpstreamRepository{}, deps.Repository)
	assert.IsType(t, &lock.UpstreamStore{}, deps.LockStore)
	assert.Nil(t, deps.Pool)
	assert.Nil(t, deps.Redis)

	registry, coordinator := deps.Services(cfg, discardLogger())
	key := option.ResourceKey{Kind: option.KindCharacter, ID: "1"}

	options, err := registry.ListOptions(context.Background(), key)
	require.NoError(t, err)
	require.Len(t, options, 1)
	assert.True(t, options[0].Locked, "lock state is hydrated from the backend")
	assert.True(t, coordinator.IsLocked(key, "o1"))
}

/*
TestOpen_MemoryLocks falls back to the in-memory lock store.
*/
func TestOpen_MemoryLocks(t *testing.T) {
	cfg := &config.Config{
		OptionBackend:   config.BackendUpstream,
		UpstreamURL:     "http://backend.invalid",
		LockStore:       config.LockStoreMemory,
		MissingDates:    config.MissingDatesFlexible,
		RegistryTimeout: time.Second,
	}

	deps, err := bootstrap.Open(context.Background(), cfg, discardLogger(), bootstrap.Options{})
	require.NoError(t, err)
	defer deps.Close()

	assert.Equal(t, lock.NopStore{}, deps.LockStore)
}

/*
TestOpen_Errors covers configuration that cannot be wired.
*/
func TestOpen_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
	}{
		{"bad_missing_dates", config.Config{OptionBackend: config.BackendUpstream, UpstreamURL: "http://x", MissingDates: "sometimes"}},
		{"upstream_without_url", config.Config{OptionBackend: config.BackendUpstream, MissingDates: config.MissingDatesFlexible}},
		{"bad_upstream_scheme", config.Config{OptionBackend: config.BackendUpstream, UpstreamURL: "ftp://x", MissingDates: config.MissingDatesFlexible}},
		{"postgres_bad_dsn", config.Config{OptionBackend: config.BackendPostgres, DatabaseURL: "://bad", MissingDates: config.MissingDatesFlexible}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps, err := bootstrap.Open(context.Background(), &tt.cfg, discardLogger(), bootstrap.Options{SkipMigrations: true})
			assert.Error(t, err)
			assert.Nil(t, deps)
		})
	}
}
