// Copyright (c) 2026 Slate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/slate/internal/platform/ctxutil"
	"github.com/taibuivan/slate/internal/platform/middleware"
)

type corsConfig struct {
	dev     bool
	origins []string
}

func (c corsConfig) IsDevelopment() bool      { return c.dev }
func (c corsConfig) AllowedOrigins() []string { return c.origins }

var okHandler = http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
	writer.WriteHeader(http.StatusOK)
})

/*
TestRequestID_GeneratesAndPropagates verifies that a missing header is filled and an existing one is kept.
*/
func TestRequestID_GeneratesAndPropagates(t *testing.T) {
	var seen string
	handler := middleware.RequestID()(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetRequestID(request.Context())
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, seen)
	assert.Equal(t, seen, recorder.Header().Get("X-Request-ID"))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("X-Request-ID", "client-id")
	handler.ServeHTTP(httptest.NewRecorder(), request)
	assert.Equal(t, "client-id", seen)
}

/*
TestRateLimiter_Burst verifies that requests beyond the burst are rejected with 429.
*/
func TestRateLimiter_Burst(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := middleware.NewRateLimiter(ctx, 0.0001, 2).Middleware()(okHandler)

	statuses := make([]int, 0, 3)
	for range 3 {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("X-Real-IP", "10.0.0.1")
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		statuses = append(statuses, recorder.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, statuses)

	// A different client has its own bucket.
	other := httptest.NewRequest(http.MethodGet, "/", nil)
	other.Header.Set("X-Real-IP", "10.0.0.2")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, other)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

/*
TestCORS covers development, allow-listed, and rejected origins.
*/
func TestCORS(t *testing.T) {
	tests := []struct {
		name      string
		cfg       corsConfig
		origin    string
		wantAllow bool
	}{
		{"development_allows_any", corsConfig{dev: true}, "http://localhost:5173", true},
		{"production_allow_listed", corsConfig{origins: []string{"https://prep.example"}}, "https://prep.example", true},
		{"production_rejected", corsConfig{origins: []string{"https://prep.example"}}, "https://evil.example", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			request.Header.Set("Origin", tt.origin)
			recorder := httptest.NewRecorder()

			middleware.CORS(tt.cfg)(okHandler).ServeHTTP(recorder, request)

			if tt.wantAllow {
				assert.Equal(t, tt.origin, recorder.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

/*
TestPanicRecovery verifies a panicking handler yields a 500 JSON error.
*/
func TestPanicRecovery(t *testing.T) {
	handler := middleware.PanicRecovery(nil)(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		panic("boom")
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "INTERNAL_ERROR")
}
