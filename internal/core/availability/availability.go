// Copyright (c) 2026 Slate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package availability models the date constraint carried by every cast and
location option.

An [Availability] is either flexible ("No constraint") or an explicit set of
individual days plus inclusive day ranges. The package converts between that
value and the backend's wire text:

	"No constraint"
	"01/10/2025, 01/14/2025, 02/01/2025 - 02/07/2025"

# Core Responsibility

  - Representation: [Availability], [Range], day normalization.
  - Wire format: [Parse] (total, never fails) and [Format] (canonical MM/DD/YYYY).
  - Coverage: [Availability.Contains] and [Availability.Highlight] drive calendar rendering.

Individual days are not deduplicated against ranges: a day written both on its
own and inside a range keeps both entries.
*/
package availability

import (
	"slices"
	"time"
)

// # Wire Constants

const (
	// NoConstraint is the wire text reserved for flexible availability.
	NoConstraint = "No constraint"

	// WireLayout is the canonical write format for a single day.
	WireLayout = "01/02/2006"

	// tokenSeparator joins days and ranges in the wire text.
	tokenSeparator = ", "

	// rangeSeparator splits a range token into its two ends.
	rangeSeparator = " - "
)

// # Core Entities

// Range is an inclusive span of days.
type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewRange builds a normalized range; ends given in reverse order are swapped.
func NewRange(start, end time.Time) Range {
	start, end = Day(start), Day(end)
	if end.Before(start) {
		start, end = end, start
	}
	return Range{Start: start, End: end}
}

// Contains reports whether day falls within the range, ends included.
func (r Range) Contains(day time.Time) bool {
	day = Day(day)
	return !day.Before(r.Start) && !day.After(r.End)
}

// Availability is the date constraint of a single option.
//
// The zero value is an explicit availability with no days selected.
type Availability struct {
	Flexible bool
	Dates    []time.Time
	Ranges   []Range
}

// Flexible returns the unconstrained availability.
func Flexible() Availability {
	return Availability{Flexible: true}
}

// New builds an explicit availability the way the option form produces it:
// any number of individual days and at most one range.
func New(dates []time.Time, rng *Range) Availability {
	availability := Availability{Dates: make([]time.Time, 0, len(dates))}
	for _, date := range dates {
		availability.Dates = append(availability.Dates, Day(date))
	}
	if rng != nil {
		availability.Ranges = []Range{NewRange(rng.Start, rng.End)}
	}
	return availability
}

// Day truncates t to midnight UTC of its calendar day, as seen in t's own location.
func Day(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// # Coverage

// IsEmpty reports whether an explicit availability selects no day at all.
func (a Availability) IsEmpty() bool {
	return !a.Flexible && len(a.Dates) == 0 && len(a.Ranges) == 0
}

// Contains reports whether day is available: always for flexible options,
// otherwise when it matches an individual day or falls inside any range.
func (a Availability) Contains(day time.Time) bool {
	if a.Flexible {
		return true
	}

	day = Day(day)
	for _, date := range a.Dates {
		if date.Equal(day) {
			return true
		}
	}
	for _, rng := range a.Ranges {
		if rng.Contains(day) {
			return true
		}
	}
	return false
}

// Highlight lists every day in [from, to] that the availability covers, in
// calendar order. Callers bound the window; see constants.MaxHighlightDays.
func (a Availability) Highlight(from, to time.Time) []time.Time {
	from, to = Day(from), Day(to)
	if to.Before(from) {
		from, to = to, from
	}

	days := make([]time.Time, 0)
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if a.Contains(day) {
			days = append(days, day)
		}
	}
	return days
}

// # Comparison

// Equivalent reports whether a and b describe the same days and ranges,
// ignoring order and repeated entries.
func Equivalent(a, b Availability) bool {
	if a.Flexible || b.Flexible {
		return a.Flexible == b.Flexible
	}
	return slices.Equal(sortedDays(a.Dates), sortedDays(b.Dates)) &&
		slices.Equal(sortedRanges(a.Ranges), sortedRanges(b.Ranges))
}

func sortedDays(days []time.Time) []time.Time {
	sorted := slices.Clone(days)
	slices.SortFunc(sorted, func(x, y time.Time) int { return x.Compare(y) })
	return slices.CompactFunc(sorted, func(x, y time.Time) bool { return x.Equal(y) })
}

func sortedRanges(ranges []Range) []Range {
	sorted := slices.Clone(ranges)
	slices.SortFunc(sorted, func(x, y Range) int {
		if c := x.Start.Compare(y.Start); c != 0 {
			return c
		}
		return x.End.Compare(y.End)
	})
	return slices.CompactFunc(sorted, func(x, y Range) bool {
		return x.Start.Equal(y.Start) && x.End.Equal(y.End)
	})
}

// # Text Encoding

// MarshalText encodes the availability in its wire format, so it travels as
// the "dates" string in JSON payloads.
func (a Availability) MarshalText() ([]byte, error) {
	return []byte(Format(a)), nil
}

// UnmarshalText decodes wire text with the default [Parser]. It never fails.
func (a *Availability) UnmarshalText(text []byte) error {
	*a = Parse(string(text))
	return nil
}
