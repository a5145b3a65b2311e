// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"regexp"
	"sync/atomic"
	"testing"

	"github.com/leapstack-labs/asksql/internal/cli/output"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// SetupCustomersDB creates a temporary SQLite database holding a customers
// table with three rows and returns its path.
func SetupCustomersDB(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "shop.db")
	ExecSQL(t, path,
		`CREATE TABLE customers (id INTEGER PRIMARY KEY, name TEXT NOT NULL, city TEXT)`,
		`INSERT INTO customers (id, name, city) VALUES (1, 'Alice', 'Paris'), (2, 'Bob', 'Berlin'), (3, 'Chen', 'Lyon')`,
		`CREATE TABLE orders (id INTEGER PRIMARY KEY, customer_id INTEGER, total REAL)`,
	)
	return path
}

// SetupEmptyDB creates a temporary SQLite database file without tables.
func SetupEmptyDB(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "empty.sqlite")
	ExecSQL(t, path, `PRAGMA user_version = 1`)
	return path
}

// ExecSQL runs statements against the database at path.
func ExecSQL(t *testing.T, path string, stmts ...string) {
	t.Helper()

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	for _, stmt := range stmts {
		_, err := db.ExecContext(context.Background(), stmt)
		require.NoError(t, err, stmt)
	}
}

// CountRows returns the number of rows in table.
func CountRows(t *testing.T, path, table string) int {
	t.Helper()

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	var n int
	require.NoError(t, db.QueryRowContext(context.Background(), `SELECT COUNT(*) FROM "`+table+`"`).Scan(&n))
	return n
}

// CompletionServer is a fake OpenAI-compatible chat completions endpoint.
type CompletionServer struct {
	*httptest.Server
	calls atomic.Int32
}

// Calls returns the number of requests served.
func (s *CompletionServer) Calls() int {
	return int(s.calls.Load())
}

// BaseURL returns the URL to pass as the client base URL.
func (s *CompletionServer) BaseURL() string {
	return s.URL + "/v1"
}

// NewCompletionServer starts a server answering every chat completion with
// content. It is closed when the test ends.
func NewCompletionServer(t *testing.T, content string) *CompletionServer {
	t.Helper()

	s := &CompletionServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.calls.Add(1)
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
		})
	}))
	t.Cleanup(s.Close)
	return s
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates an uncolored renderer writing to buffers.
func NewTestRenderer(format output.Format) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRenderer(out, errOut, format, false),
		Out:      out,
		ErrOut:   errOut,
	}
}

// Output returns the stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}
