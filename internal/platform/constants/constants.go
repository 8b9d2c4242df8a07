// Copyright (c) 2026 Slate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Scheduling: Calendar and bulk limits for the option API.
  - Headers and JSON field identifiers.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "slate"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 30 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second

	// DefaultRegistryTimeout bounds every network-bound registry call.
	DefaultRegistryTimeout = 10 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 50.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 100

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Scheduling

const (
	// MaxHighlightDays caps the calendar window a single highlight request may span.
	MaxHighlightDays = 366

	// MaxBulkDelete caps the number of option ids in a single bulk-delete request.
	MaxBulkDelete = 200

	// MaxOptionNameLength is the longest accepted actor or location name.
	MaxOptionNameLength = 200

	// MaxOptionTextLength bounds the free-form detail and notes fields.
	MaxOptionTextLength = 2000
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderContentType   = "Content-Type"
	MIMEApplicationJSON = "application/json"
)

// # JSON Field Identifiers

// Used by middleware that writes error bodies without the respond package.
const (
	FieldError = "error"
	FieldCode  = "code"
)

// # Redis Prefixes

const (
	RedisPrefixLock = "slate:lock:"
)
