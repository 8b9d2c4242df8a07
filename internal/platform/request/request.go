// Copyright (c) 2026 Slate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling.
*/
package requestutil

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/slate/internal/platform/validate"
)

// isoDate is the layout accepted for calendar query parameters.
const isoDate = "2006-01-02"

/*
DecodeJSON reads the request body and decodes it into the target structure.

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target any) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
QueryDate parses a YYYY-MM-DD query parameter.

Returns:
  - time.Time: UTC midnight of the given day
  - error: a VALIDATION_ERROR naming the parameter when missing or malformed
*/
func QueryDate(request *http.Request, name string) (time.Time, error) {
	raw := request.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, validate.RequiredError(name, "This parameter is required (YYYY-MM-DD)")
	}

	day, err := time.ParseInLocation(isoDate, raw, time.UTC)
	if err != nil {
		return time.Time{}, validate.RequiredError(name, "Must be a date in YYYY-MM-DD format")
	}

	return day, nil
}
