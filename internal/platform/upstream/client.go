// Copyright (c) 2026 Slate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package upstream is the JSON client for the existing pre-production backend.

It owns the error translation every caller relies on:

  - transport failure  → apperr.Network  (UPSTREAM_UNAVAILABLE)
  - deadline exceeded  → apperr.Timeout  (UPSTREAM_TIMEOUT)
  - non-2xx response   → apperr.Server   (UPSTREAM_ERROR, backend message kept)

Callers bound each call with a context deadline; the client adds none itself.
*/
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/taibuivan/slate/internal/platform/apperr"
	"github.com/taibuivan/slate/internal/platform/constants"
	"github.com/taibuivan/slate/internal/platform/ctxutil"
)

// maxBodyBytes caps how much of a backend response is read.
const maxBodyBytes = 4 << 20

// Client issues JSON requests against a base URL.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// NewClient validates baseURL and builds a client around httpClient
// (http.DefaultClient when nil).
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("upstream: invalid base URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("upstream: base URL must be http(s), got %q", baseURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: parsed, httpClient: httpClient}, nil
}

// Path joins escaped segments onto the base URL path.
//
// # Example
//
//	client.Path("characters", "12", "options") // "<base>/characters/12/options"
func (c *Client) Path(segments ...string) string {
	escaped := make([]string, 0, len(segments))
	for _, segment := range segments {
		escaped = append(escaped, url.PathEscape(segment))
	}
	return c.baseURL.String() + "/" + strings.Join(escaped, "/")
}

// Do sends payload (JSON-encoded when non-nil) and returns the raw response body.
func (c *Client) Do(ctx context.Context, method, target string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, apperr.Internal(fmt.Errorf("upstream: encode payload: %w", err))
		}
		body = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("upstream: build request: %w", err))
	}
	request.Header.Set("Accept", constants.MIMEApplicationJSON)
	if payload != nil {
		request.Header.Set(constants.HeaderContentType, constants.MIMEApplicationJSON)
	}
	if requestID := ctxutil.GetRequestID(ctx); requestID != "" {
		request.Header.Set(constants.HeaderXRequestID, requestID)
	}

	startTime := time.Now()
	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, apperr.FromTransport(err)
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(io.LimitReader(response.Body, maxBodyBytes))
	if err != nil {
		return nil, apperr.FromTransport(err)
	}

	ctxutil.GetLogger(ctx).DebugContext(ctx, "upstream_call_finished",
		slog.String("method", method),
		slog.String("url", target),
		slog.Int("status", response.StatusCode),
		slog.Int64("latency_ms", time.Since(startTime).Milliseconds()),
	)

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, apperr.Server(response.StatusCode, errorMessage(responseBody))
	}

	return responseBody, nil
}

// errorMessage extracts the backend's explanation from a JSON error body.
func errorMessage(body []byte) string {
	var envelope map[string]any
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	for _, key := range []string{"error", "message", "detail"} {
		if text, ok := envelope[key].(string); ok && strings.TrimSpace(text) != "" {
			return text
		}
	}
	return ""
}

// Ping reports whether the backend answers at all. Any HTTP response counts as
// reachable; only transport failures and deadlines are errors.
func (c *Client) Ping(ctx context.Context) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL.String()+"/", nil)
	if err != nil {
		return apperr.Internal(fmt.Errorf("upstream: build request: %w", err))
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return apperr.FromTransport(err)
	}
	_ = response.Body.Close()
	return nil
}
