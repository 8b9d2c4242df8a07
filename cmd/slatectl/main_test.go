// Copyright (c) 2026 Slate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := newRootCmd()
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersionCmd(t *testing.T) {
	origVersion, origCommit, origDate := Version, Commit, Date
	Version, Commit, Date = "1.0.0", "abc123", "2026-01-01"
	defer func() { Version, Commit, Date = origVersion, origCommit, origDate }()

	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "slatectl 1.0.0 (commit: abc123, built: 2026-01-01)\n", out)
}

func TestDatesParse(t *testing.T) {
	out, _, err := run(t, "dates", "parse", "1/5/2025, 01/10/2025 - 01/12/2025")
	require.NoError(t, err)

	var view map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &view))
	assert.Equal(t, "01/05/2025, 01/10/2025 - 01/12/2025", view["canonical"])
	assert.Equal(t, false, view["flexible"])

	out, _, err = run(t, "dates", "parse", "--output", "json", "")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, true, view["flexible"])

	out, _, err = run(t, "dates", "parse", "--missing", "empty", "-o", "json", "")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, false, view["flexible"])
	assert.Equal(t, "", view["canonical"])

	_, _, err = run(t, "dates", "parse", "--output", "xml", "01/01/2025")
	assert.Error(t, err)
}

func TestDatesContains(t *testing.T) {
	tests := []struct {
		dates string
		day   string
		want  string
	}{
		{"01/10/2025 - 01/20/2025", "2025-01-20", "true"},
		{"01/10/2025 - 01/20/2025", "2025-01-21", "false"},
		{"No constraint", "1999-12-31", "true"},
	}

	for _, tt := range tests {
		out, _, err := run(t, "dates", "contains", tt.dates, tt.day)
		require.NoError(t, err)
		assert.Equal(t, tt.want, strings.TrimSpace(out), tt.dates+" "+tt.day)
	}

	_, _, err := run(t, "dates", "contains", "01/10/2025", "01/10/2025")
	assert.Error(t, err)
}

// backendStub serves one character's options and the lock endpoint.
type backendStub struct {
	mu      sync.Mutex
	options []map[string]any
	locked  string
}

func (b *backendStub) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	const base = "/characters/9/options"
	switch {
	case request.Method == http.MethodGet && request.URL.Path == base:
		for _, o := range b.options {
			o["locked"] = o["id"] == b.locked
		}
		_ = json.NewEncoder(writer).Encode(b.options)

	case request.Method == http.MethodPost && request.URL.Path == base:
		var payload map[string]any
		_ = json.NewDecoder(request.Body).Decode(&payload)
		payload["id"] = fmt.Sprintf("c%d", len(b.options)+1)
		b.options = append(b.options, payload)
		_ = json.NewEncoder(writer).Encode(map[string]any{"id": payload["id"]})

	case request.Method == http.MethodPost && strings.HasSuffix(request.URL.Path, "/lock"):
		var payload struct {
			Locked bool `json:"locked"`
		}
		_ = json.NewDecoder(request.Body).Decode(&payload)
		id := strings.TrimSuffix(strings.TrimPrefix(request.URL.Path, base+"/"), "/lock")
		if payload.Locked {
			b.locked = id
		} else if b.locked == id {
			b.locked = ""
		}
		writer.WriteHeader(http.StatusNoContent)

	case request.Method == http.MethodDelete && strings.HasPrefix(request.URL.Path, base+"/"):
		id := strings.TrimPrefix(request.URL.Path, base+"/")
		for i, o := range b.options {
			if o["id"] == id {
				b.options = append(b.options[:i], b.options[i+1:]...)
				writer.WriteHeader(http.StatusNoContent)
				return
			}
		}
		writer.WriteHeader(http.StatusNotFound)

	default:
		writer.WriteHeader(http.StatusNotFound)
	}
}

func TestOptionsCommands(t *testing.T) {
	backend := &backendStub{}
	server := httptest.NewServer(backend)
	defer server.Close()

	t.Setenv("OPTION_BACKEND", "upstream")
	t.Setenv("UPSTREAM_URL", server.URL)
	t.Setenv("LOCK_STORE", "upstream")
	t.Setenv("MISSING_DATES", "flexible")

	out, _, err := run(t, "options", "list", "character", "9")
	require.NoError(t, err)
	assert.Contains(t, out, "No options found.")

	out, _, err = run(t, "options", "add", "cast", "9", "--name", "Jane Doe", "--dates", "1/5/2025", "--extra", "agent=Sam")
	require.NoError(t, err)
	var created map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &created))
	assert.Equal(t, "c1", created["id"])
	assert.Equal(t, "01/05/2025", created["dates"])

	_, _, err = run(t, "options", "add", "characters", "9", "--name", "John Roe")
	require.NoError(t, err)

	out, _, err = run(t, "options", "lock", "character", "9", "c2")
	require.NoError(t, err)
	assert.Equal(t, "character/9 locked on c2\n", out)

	out, _, err = run(t, "options", "list", "character", "9")
	require.NoError(t, err)
	assert.Contains(t, out, "S.NO.")
	assert.Regexp(t, `2\s+c2\s+John Roe\s+No constraint\s+yes`, out)

	out, stderr, err := run(t, "options", "remove", "character", "9", "c1", "zz")
	assert.Error(t, err)
	assert.Contains(t, out, "removed c1")
	assert.Contains(t, stderr, "failed zz")

	out, _, err = run(t, "options", "list", "character", "9", "-o", "json")
	require.NoError(t, err)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "c2", rows[0]["id"])
	assert.Equal(t, true, rows[0]["locked"])

	_, _, err = run(t, "options", "list", "prop", "9")
	assert.Error(t, err)
}
