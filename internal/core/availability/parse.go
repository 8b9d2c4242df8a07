// Copyright (c) 2026 Slate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package availability

import (
	"fmt"
	"strings"
	"time"
)

// readLayouts lists every day format accepted on read, most specific first.
//
//   - "1/2/2006" covers the canonical MM/DD/YYYY and US toLocaleDateString output.
//   - "2006-01-02" covers ISO dates.
//   - "2.1.2006" covers dotted European locale output.
//   - "2/1/2006" is the day-first slash fallback (en-GB), tried only after the
//     month-first reading failed, so "05/06/2025" stays May 6th.
var readLayouts = []string{
	"1/2/2006",
	"2006-01-02",
	"2.1.2006",
	"2/1/2006",
}

// # Missing Dates Policy

// MissingPolicy decides how blank wire text is read.
type MissingPolicy int

const (
	// MissingFlexible reads blank text as "No constraint".
	MissingFlexible MissingPolicy = iota

	// MissingEmpty reads blank text as an explicit availability with no days selected.
	MissingEmpty
)

// ParseMissingPolicy maps the configuration value ("flexible" or "empty") to a policy.
func ParseMissingPolicy(value string) (MissingPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "flexible":
		return MissingFlexible, nil
	case "empty":
		return MissingEmpty, nil
	default:
		return MissingFlexible, fmt.Errorf("availability: unknown missing-dates policy %q", value)
	}
}

// # Token Errors

// TokenError reports a range token that was excluded from the parsed result.
type TokenError struct {
	Token  string `json:"token"`
	Reason string `json:"reason"`
}

// Error implements the error interface.
func (e TokenError) Error() string {
	return fmt.Sprintf("availability: token %q: %s", e.Token, e.Reason)
}

// # Parser

// Parser converts wire text into an [Availability].
//
// The zero value reads blank text as flexible.
type Parser struct {
	Missing MissingPolicy
}

// defaultParser backs the package-level [Parse] and [Availability.UnmarshalText].
var defaultParser = Parser{Missing: MissingFlexible}

// Parse reads wire text with the default policy. It never fails.
func Parse(raw string) Availability {
	return defaultParser.Parse(raw)
}

// ParseDetailed reads wire text with the default policy and reports excluded range tokens.
func ParseDetailed(raw string) (Availability, []TokenError) {
	return defaultParser.ParseDetailed(raw)
}

// Parse reads wire text, dropping tokens that are not valid days or ranges.
func (p Parser) Parse(raw string) Availability {
	availability, _ := p.ParseDetailed(raw)
	return availability
}

// ParseDetailed reads wire text and reports every range token it had to exclude.
//
// # Token Rules
//
//  1. Trimmed, case-insensitive "no constraint" is flexible.
//  2. Blank text follows the parser's [MissingPolicy].
//  3. Tokens are separated by ", ".
//  4. A token containing " - " is a range; if either end is not a valid day the
//     token is excluded and reported, and parsing continues.
//  5. Any other token is a single day; invalid days are dropped silently.
func (p Parser) ParseDetailed(raw string) (Availability, []TokenError) {
	trimmed := strings.TrimSpace(raw)

	if strings.EqualFold(trimmed, NoConstraint) {
		return Flexible(), nil
	}

	if trimmed == "" {
		if p.Missing == MissingFlexible {
			return Flexible(), nil
		}
		return Availability{}, nil
	}

	var (
		availability Availability
		rejected     []TokenError
	)

	for _, token := range strings.Split(trimmed, tokenSeparator) {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		if startText, endText, isRange := strings.Cut(token, rangeSeparator); isRange {
			start, startOK := parseDay(startText)
			end, endOK := parseDay(endText)
			switch {
			case !startOK:
				rejected = append(rejected, TokenError{Token: token, Reason: "invalid range start"})
			case !endOK:
				rejected = append(rejected, TokenError{Token: token, Reason: "invalid range end"})
			default:
				availability.Ranges = append(availability.Ranges, NewRange(start, end))
			}
			continue
		}

		if day, ok := parseDay(token); ok {
			availability.Dates = append(availability.Dates, day)
		}
	}

	return availability, rejected
}

// parseDay reads a single calendar day in any accepted layout.
func parseDay(text string) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}

	for _, layout := range readLayouts {
		if day, err := time.ParseInLocation(layout, text, time.UTC); err == nil {
			return day, true
		}
	}
	return time.Time{}, false
}
