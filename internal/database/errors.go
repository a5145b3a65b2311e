package database

import (
	"fmt"
	"strings"
)

// FileNotFoundError is returned when the database path does not exist.
type FileNotFoundError struct {
	Path string
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("database file not found at %q", e.Path)
}

// InvalidExtensionError is returned when the database path does not carry a
// recognized SQLite suffix.
type InvalidExtensionError struct {
	Path      string
	Extension string
}

func (e *InvalidExtensionError) Error() string {
	ext := e.Extension
	if ext == "" {
		ext = "(none)"
	}
	return fmt.Sprintf("unsupported database extension %s for %q (expected %s)", ext, e.Path, strings.Join(Extensions, ", "))
}

// AccessError wraps failures to open or read the database file.
type AccessError struct {
	Path  string
	Cause error
}

func (e *AccessError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("cannot access database: %v", e.Cause)
	}
	return fmt.Sprintf("cannot access database %q: %v", e.Path, e.Cause)
}

func (e *AccessError) Unwrap() error {
	return e.Cause
}
