// Copyright (c) 2026 Slate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slice_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/slate/pkg/slice"
)

func TestMap(t *testing.T) {
	assert.Equal(t, []string{"A", "B"}, slice.Map([]string{"a", "b"}, strings.ToUpper))
	assert.Nil(t, slice.Map[string, string](nil, strings.ToUpper))
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []string{"o2", "o1", "o3"}, slice.Dedupe([]string{"o2", "o1", "o2", "o3", "o1"}))
	assert.Nil(t, slice.Dedupe[string](nil))
}
