// Copyright (c) 2026 Slate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package fieldkey canonicalizes JSON field names coming from loosely typed
// payloads.
//
// # Usage
//
// The scheduling backend has, over time, spelled the same field as
// "location_name", "locationName" and "Location Name". All of them map to the
// single canonical key "location_name", so lookups happen once at ingestion.
package fieldkey

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// nonAlphanumeric matches any run of characters that cannot appear in a key.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
)

// Canonical converts an arbitrary field name into lower snake_case.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFD and removes combining marks (é → e).
// 2. Splits camelCase boundaries ("locationName" → "location Name").
// 3. Converts to lowercase.
// 4. Replaces every run of non-alphanumeric characters with a single "_".
// 5. Trims leading/trailing underscores ("_id" → "id").
func Canonical(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn))
	result, _, _ := transform.String(t, s)

	result = splitCamel(result)
	result = strings.ToLower(result)
	result = nonAlphanumeric.ReplaceAllString(result, "_")

	return strings.Trim(result, "_")
}

// splitCamel inserts a space wherever a lowercase letter or digit is followed
// by an uppercase letter.
func splitCamel(s string) string {
	var builder strings.Builder
	builder.Grow(len(s) + 4)

	var previous rune
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) && (unicode.IsLower(previous) || unicode.IsDigit(previous)) {
			builder.WriteRune(' ')
		}
		builder.WriteRune(r)
		previous = r
	}

	return builder.String()
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
