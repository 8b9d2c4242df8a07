// Copyright (c) 2026 Slate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package fieldkey_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/slate/pkg/fieldkey"
)

/*
TestCanonical verifies that every historical spelling collapses to one key.
*/
func TestCanonical(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"location_name", "location_name"},
		{"locationName", "location_name"},
		{"Location Name", "location_name"},
		{"LOCATION-NAME", "location_name"},
		{"optionId", "option_id"},
		{"_id", "id"},
		{"Actor Détails", "actor_details"},
		{"  S.No.  ", "s_no"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, fieldkey.Canonical(tt.in))
		})
	}
}
