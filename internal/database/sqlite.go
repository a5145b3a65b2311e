// Package database opens the single SQLite connection used by a session.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	// sqlite driver for the target database.
	_ "modernc.org/sqlite"
)

// Extensions lists the file suffixes accepted as SQLite databases.
var Extensions = []string{".db", ".sqlite", ".sqlite3"}

// ValidatePath checks that path exists, is a regular file and ends with one of
// Extensions (case-insensitive).
func ValidatePath(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &FileNotFoundError{Path: path}
	}
	if err != nil {
		return &AccessError{Path: path, Cause: err}
	}
	if info.IsDir() {
		return &AccessError{Path: path, Cause: fmt.Errorf("path is a directory")}
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !slices.Contains(Extensions, ext) {
		return &InvalidExtensionError{Path: path, Extension: filepath.Ext(path)}
	}
	return nil
}

// Open opens path and verifies the connection. The pool is capped at one
// connection so every statement of the session runs on the same handle.
// Use ":memory:" for an in-memory database.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	dsn := path + "?_pragma=foreign_keys(1)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, &AccessError{Path: path, Cause: err}
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, &AccessError{Path: path, Cause: err}
	}
	return db, nil
}
