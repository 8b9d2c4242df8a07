// Copyright (c) 2026 Slate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/slate/internal/platform/apperr"
	"github.com/taibuivan/slate/internal/platform/dberr"
)

/*
TestWrap classifies pgx errors into application error codes.
*/
func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"no_rows", pgx.ErrNoRows, apperr.CodeNotFound},
		{"unique_violation", &pgconn.PgError{Code: "23505"}, apperr.CodeConflict},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), apperr.CodeUpstreamTimeout},
		{"anything_else", errors.New("conn reset"), apperr.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, apperr.HasCode(dberr.Wrap(tt.err, "delete_option"), tt.wantCode))
		})
	}

	assert.NoError(t, dberr.Wrap(nil, "noop"))
}
