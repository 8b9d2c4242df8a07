// Copyright (c) 2026 Slate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package availability_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/slate/internal/core/availability"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

/*
TestParse_NoConstraint verifies the reserved text is read as flexible regardless of case.
*/
func TestParse_NoConstraint(t *testing.T) {
	for _, raw := range []string{"No constraint", "no constraint", "NO CONSTRAINT", "  No Constraint  "} {
		t.Run(raw, func(t *testing.T) {
			assert.True(t, availability.Parse(raw).Flexible)
		})
	}
}

/*
TestParse_MissingPolicy verifies blank text follows the configured policy.
*/
func TestParse_MissingPolicy(t *testing.T) {
	assert.True(t, availability.Parse("").Flexible)
	assert.True(t, availability.Parse("   ").Flexible)

	empty := availability.Parser{Missing: availability.MissingEmpty}.Parse("")
	assert.False(t, empty.Flexible)
	assert.True(t, empty.IsEmpty())
	assert.Equal(t, "", availability.Format(empty))
}

/*
TestParseMissingPolicy maps configuration values.
*/
func TestParseMissingPolicy(t *testing.T) {
	policy, err := availability.ParseMissingPolicy("empty")
	require.NoError(t, err)
	assert.Equal(t, availability.MissingEmpty, policy)

	policy, err = availability.ParseMissingPolicy("Flexible")
	require.NoError(t, err)
	assert.Equal(t, availability.MissingFlexible, policy)

	_, err = availability.ParseMissingPolicy("error")
	assert.Error(t, err)
}

/*
TestParse_DatesAndRange covers the canonical producer output.
*/
func TestParse_DatesAndRange(t *testing.T) {
	got := availability.Parse("01/05/2025, 01/07/2025, 01/10/2025 - 01/20/2025")

	assert.False(t, got.Flexible)
	assert.Equal(t, []time.Time{day(2025, 1, 5), day(2025, 1, 7)}, got.Dates)
	require.Len(t, got.Ranges, 1)
	assert.Equal(t, day(2025, 1, 10), got.Ranges[0].Start)
	assert.Equal(t, day(2025, 1, 20), got.Ranges[0].End)
}

/*
TestParse_InvalidDateDropped verifies that an impossible calendar date is dropped rather than failing.
*/
func TestParse_InvalidDateDropped(t *testing.T) {
	got, rejected := availability.ParseDetailed("13/45/2025")

	assert.False(t, got.Flexible)
	assert.True(t, got.IsEmpty())
	assert.Empty(t, rejected)

	got = availability.Parse("02/30/2025, 03/01/2025, garbage")
	assert.Equal(t, []time.Time{day(2025, 3, 1)}, got.Dates)
}

/*
TestParse_MalformedRangeReported verifies bad range tokens are reported and the rest still parses.
*/
func TestParse_MalformedRangeReported(t *testing.T) {
	got, rejected := availability.ParseDetailed("01/02/2025, 01/10/2025 - 99/99/2025, 02/01/2025 - 02/03/2025")

	assert.Equal(t, []time.Time{day(2025, 1, 2)}, got.Dates)
	require.Len(t, got.Ranges, 1)
	assert.Equal(t, day(2025, 2, 1), got.Ranges[0].Start)

	require.Len(t, rejected, 1)
	assert.Equal(t, "01/10/2025 - 99/99/2025", rejected[0].Token)
	assert.Equal(t, "invalid range end", rejected[0].Reason)
	assert.Contains(t, rejected[0].Error(), "99/99/2025")
}

/*
TestParse_LegacyFormats verifies locale strings written by older screens are still read.
*/
func TestParse_LegacyFormats(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Time
	}{
		{"us_locale_unpadded", "1/5/2025", day(2025, 1, 5)},
		{"canonical", "01/05/2025", day(2025, 1, 5)},
		{"iso", "2025-01-05", day(2025, 1, 5)},
		{"dotted_european", "5.1.2025", day(2025, 1, 5)},
		{"day_first_fallback", "25/12/2025", day(2025, 12, 25)},
		{"ambiguous_reads_month_first", "05/06/2025", day(2025, 5, 6)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := availability.Parse(tt.raw)
			require.Len(t, got.Dates, 1)
			assert.Equal(t, tt.want, got.Dates[0])
		})
	}
}

/*
TestParse_SlashOrderPriority mixes slash dates that read both ways, day-first only and neither way.
*/
func TestParse_SlashOrderPriority(t *testing.T) {
	got := availability.Parse("05/06/2025, 13/05/2025, 02/30/2025, 31/02/2025, 12/11/2025, 05/06/2025 - 20/06/2025")

	assert.Equal(t, []time.Time{
		day(2025, 5, 6),   // month-first wins when both readings are valid
		day(2025, 5, 13),  // only valid day-first
		day(2025, 12, 11), // month-first
	}, got.Dates)

	require.Len(t, got.Ranges, 1)
	assert.Equal(t, day(2025, 5, 6), got.Ranges[0].Start)
	assert.Equal(t, day(2025, 6, 20), got.Ranges[0].End)

	assert.Equal(t, "05/06/2025, 05/13/2025, 12/11/2025, 05/06/2025 - 06/20/2025", availability.Format(got))
}

/*
TestParse_DatesInsideRangeKept verifies that days overlapping a range are not deduplicated.
*/
func TestParse_DatesInsideRangeKept(t *testing.T) {
	got := availability.Parse("01/15/2025, 01/10/2025 - 01/20/2025")

	assert.Len(t, got.Dates, 1)
	assert.Len(t, got.Ranges, 1)
	assert.Equal(t, "01/15/2025, 01/10/2025 - 01/20/2025", availability.Format(got))
}

/*
TestParse_ReversedRangeNormalized verifies ranges written end-first are swapped.
*/
func TestParse_ReversedRangeNormalized(t *testing.T) {
	got := availability.Parse("01/20/2025 - 01/10/2025")

	require.Len(t, got.Ranges, 1)
	assert.Equal(t, day(2025, 1, 10), got.Ranges[0].Start)
	assert.Equal(t, day(2025, 1, 20), got.Ranges[0].End)
}

/*
TestFormat covers flexible, canonical padding, and the empty explicit case.
*/
func TestFormat(t *testing.T) {
	rng := availability.NewRange(day(2025, 2, 1), day(2025, 2, 7))

	tests := []struct {
		name string
		in   availability.Availability
		want string
	}{
		{"flexible", availability.Flexible(), "No constraint"},
		{"empty", availability.Availability{}, ""},
		{"dates_only", availability.New([]time.Time{day(2025, 1, 5), day(2025, 11, 20)}, nil), "01/05/2025, 11/20/2025"},
		{"dates_and_range", availability.New([]time.Time{day(2025, 1, 5)}, &rng), "01/05/2025, 02/01/2025 - 02/07/2025"},
		{"range_only", availability.New(nil, &rng), "02/01/2025 - 02/07/2025"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, availability.Format(tt.in))
		})
	}
}

/*
TestFormat_NeverReserved verifies an explicit availability never serializes to the flexible marker.
*/
func TestFormat_NeverReserved(t *testing.T) {
	for _, raw := range []string{"", "13/45/2025", "01/01/2025", "01/01/2025 - 01/02/2025"} {
		got := availability.Parser{Missing: availability.MissingEmpty}.Parse(raw)
		assert.NotEqual(t, "no constraint", availability.Format(got))
	}
}

/*
TestFormatParse_RoundTrip verifies well-formed wire text survives a parse/format cycle.
*/
func TestFormatParse_RoundTrip(t *testing.T) {
	inputs := []string{
		"01/05/2025",
		"01/05/2025, 01/07/2025",
		"01/10/2025 - 01/20/2025",
		"12/31/2024, 01/01/2025, 03/01/2025 - 03/31/2025",
	}

	for _, raw := range inputs {
		t.Run(raw, func(t *testing.T) {
			parsed := availability.Parse(raw)
			formatted := availability.Format(parsed)

			assert.Equal(t, raw, formatted)
			assert.True(t, availability.Equivalent(parsed, availability.Parse(formatted)))
		})
	}
}

/*
TestFormatParse_LegacyNormalizes verifies legacy input is rewritten in the canonical format.
*/
func TestFormatParse_LegacyNormalizes(t *testing.T) {
	assert.Equal(t, "01/05/2025, 02/01/2025 - 02/03/2025", availability.Format(availability.Parse("1/5/2025, 2025-02-01 - 3.2.2025")))
}

/*
TestContains covers inclusive range bounds, individual days, and flexible.
*/
func TestContains(t *testing.T) {
	rng := availability.Parse("01/10/2025 - 01/20/2025")

	assert.True(t, rng.Contains(day(2025, 1, 15)))
	assert.True(t, rng.Contains(day(2025, 1, 10)))
	assert.True(t, rng.Contains(day(2025, 1, 20)))
	assert.False(t, rng.Contains(day(2025, 1, 21)))
	assert.False(t, rng.Contains(day(2025, 1, 9)))

	// Time of day and location do not matter, only the calendar day.
	assert.True(t, rng.Contains(time.Date(2025, 1, 20, 23, 59, 0, 0, time.FixedZone("PST", -8*3600))))

	dates := availability.Parse("03/01/2025, 03/05/2025")
	assert.True(t, dates.Contains(day(2025, 3, 5)))
	assert.False(t, dates.Contains(day(2025, 3, 2)))

	assert.True(t, availability.Flexible().Contains(day(1999, 1, 1)))
	assert.False(t, availability.Availability{}.Contains(day(2025, 1, 1)))
}

/*
TestHighlight lists the covered days in a calendar window.
*/
func TestHighlight(t *testing.T) {
	a := availability.Parse("01/02/2025, 01/05/2025 - 01/06/2025, 02/01/2025")

	got := a.Highlight(day(2025, 1, 1), day(2025, 1, 31))
	assert.Equal(t, []time.Time{day(2025, 1, 2), day(2025, 1, 5), day(2025, 1, 6)}, got)

	// Reversed bounds are accepted.
	assert.Equal(t, got, a.Highlight(day(2025, 1, 31), day(2025, 1, 1)))

	assert.Len(t, availability.Flexible().Highlight(day(2025, 1, 1), day(2025, 1, 7)), 7)
}

/*
TestEquivalent ignores order and duplicates but distinguishes flexible.
*/
func TestEquivalent(t *testing.T) {
	a := availability.Parse("01/02/2025, 01/01/2025, 01/10/2025 - 01/12/2025")
	b := availability.Parse("01/10/2025 - 01/12/2025, 01/01/2025, 01/02/2025, 01/02/2025")

	assert.True(t, availability.Equivalent(a, b))
	assert.False(t, availability.Equivalent(a, availability.Flexible()))
	assert.True(t, availability.Equivalent(availability.Flexible(), availability.Parse("no constraint")))
	assert.False(t, availability.Equivalent(a, availability.Parse("01/01/2025")))
}

/*
TestJSON verifies availability travels as the wire string.
*/
func TestJSON(t *testing.T) {
	type payload struct {
		Dates availability.Availability `json:"dates"`
	}

	encoded, err := json.Marshal(payload{Dates: availability.Parse("1/5/2025")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"dates":"01/05/2025"}`, string(encoded))

	var decoded payload
	require.NoError(t, json.Unmarshal([]byte(`{"dates":"No constraint"}`), &decoded))
	assert.True(t, decoded.Dates.Flexible)
}

/*
TestDescribe verifies the structured view used by the parse endpoint.
*/
func TestDescribe(t *testing.T) {
	a, rejected := availability.ParseDetailed("1/5/2025, 01/10/2025 - bad, 02/01/2025 - 02/03/2025")
	view := availability.Describe(a, rejected)

	assert.False(t, view.Flexible)
	assert.Equal(t, []string{"2025-01-05"}, view.Dates)
	assert.Equal(t, []availability.RangeView{{Start: "2025-02-01", End: "2025-02-03"}}, view.Ranges)
	assert.Equal(t, "01/05/2025, 02/01/2025 - 02/03/2025", view.Canonical)
	assert.Len(t, view.Rejected, 1)
}
