// Copyright (c) 2026 Slate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the centralized error taxonomy for Slate.

Every error that leaves the service layer is an [AppError] carrying a
machine-readable code and the HTTP status it maps to.

Taxonomy:

  - VALIDATION_ERROR: malformed input rejected before any network call.
  - UPSTREAM_UNAVAILABLE: transport failure talking to the pre-production backend.
  - UPSTREAM_ERROR: the backend answered with a non-2xx status.
  - UPSTREAM_TIMEOUT: the backend did not answer within the registry deadline.
  - NOT_FOUND / INTERNAL_ERROR: the usual suspects.

Availability parsing never produces an error; see package availability.
*/
package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// # Error Codes

const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeNotFound            = "NOT_FOUND"
	CodeConflict            = "CONFLICT"
	CodeRateLimited         = "RATE_LIMITED"
	CodeInternal            = "INTERNAL_ERROR"
	CodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	CodeUpstreamError       = "UPSTREAM_ERROR"
	CodeUpstreamTimeout     = "UPSTREAM_TIMEOUT"
)

// AppError is the canonical error type for the Slate API.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients.
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "NOT_FOUND").
	Code string `json:"code"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"error"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// UpstreamStatus is the status returned by the backend for UPSTREAM_ERROR.
	UpstreamStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for VALIDATION_ERROR responses.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Client Errors (4xx)

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("Option") // Returns "Option not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// Conflict creates a 409 [AppError].
func Conflict(msg string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    msg,
		HTTPStatus: http.StatusConflict,
	}
}

// ValidationError creates a 400 [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// RateLimited creates a 429 [AppError].
func RateLimited(retryAfterSeconds int) *AppError {
	return &AppError{
		Code:       CodeRateLimited,
		Message:    fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds),
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// # Server Errors (5xx)

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never sent to the client.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// # Upstream Errors

// Network creates a 502 [AppError] for a transport failure.
func Network(cause error) *AppError {
	return &AppError{
		Code:       CodeUpstreamUnavailable,
		Message:    "Scheduling backend is unreachable",
		HTTPStatus: http.StatusBadGateway,
		Cause:      cause,
	}
}

// Server creates a 502 [AppError] for a non-2xx backend response.
// An empty message falls back to the status text.
func Server(status int, msg string) *AppError {
	if msg == "" {
		msg = fmt.Sprintf("Scheduling backend returned %d %s", status, http.StatusText(status))
	}
	return &AppError{
		Code:           CodeUpstreamError,
		Message:        msg,
		HTTPStatus:     http.StatusBadGateway,
		UpstreamStatus: status,
	}
}

// Timeout creates a 504 [AppError] for a deadline exceeded while waiting on the backend.
func Timeout(cause error) *AppError {
	return &AppError{
		Code:       CodeUpstreamTimeout,
		Message:    "Scheduling backend did not respond in time",
		HTTPStatus: http.StatusGatewayTimeout,
		Cause:      cause,
	}
}

// FromTransport classifies an error returned by an outbound call.
//
// Errors already classified pass through untouched.
func FromTransport(err error) error {
	if err == nil {
		return nil
	}
	if IsAppError(err) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Timeout(err)
	}
	return Network(err)
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// HasCode reports whether err carries the given machine-readable code.
func HasCode(err error, code string) bool {
	ae := As(err)
	return ae != nil && ae.Code == code
}
