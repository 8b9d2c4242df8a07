// Copyright (c) 2026 Slate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package availability

import (
	"strings"
	"time"
)

// Format renders an availability in the canonical wire format.
//
// Flexible availability is "No constraint". Otherwise individual days come
// first, in stored order, followed by ranges; every day is zero-padded
// MM/DD/YYYY. An explicit availability with no days renders as "".
func Format(a Availability) string {
	if a.Flexible {
		return NoConstraint
	}

	tokens := make([]string, 0, len(a.Dates)+len(a.Ranges))
	for _, date := range a.Dates {
		tokens = append(tokens, FormatDay(date))
	}
	for _, rng := range a.Ranges {
		tokens = append(tokens, FormatDay(rng.Start)+rangeSeparator+FormatDay(rng.End))
	}

	return strings.Join(tokens, tokenSeparator)
}

// FormatDay renders a single day as MM/DD/YYYY.
func FormatDay(day time.Time) string {
	return Day(day).Format(WireLayout)
}

// String implements fmt.Stringer with the wire format.
func (a Availability) String() string {
	return Format(a)
}

// # Structured View

// isoLayout is used for the structured view handed to API clients.
const isoLayout = "2006-01-02"

// RangeView is the ISO rendering of a [Range].
type RangeView struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// View is the structured rendering of an availability for API clients.
type View struct {
	Flexible  bool         `json:"flexible"`
	Dates     []string     `json:"dates"`
	Ranges    []RangeView  `json:"ranges"`
	Canonical string       `json:"canonical"`
	Rejected  []TokenError `json:"rejected,omitempty"`
}

// Describe builds the structured view of a, attaching any rejected tokens.
func Describe(a Availability, rejected []TokenError) View {
	view := View{
		Flexible:  a.Flexible,
		Dates:     make([]string, 0, len(a.Dates)),
		Ranges:    make([]RangeView, 0, len(a.Ranges)),
		Canonical: Format(a),
		Rejected:  rejected,
	}
	for _, date := range a.Dates {
		view.Dates = append(view.Dates, date.Format(isoLayout))
	}
	for _, rng := range a.Ranges {
		view.Ranges = append(view.Ranges, RangeView{
			Start: rng.Start.Format(isoLayout),
			End:   rng.End.Format(isoLayout),
		})
	}
	return view
}
