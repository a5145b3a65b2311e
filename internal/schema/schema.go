// Package schema extracts table metadata from a SQLite catalog.
//
// Only the first user table is ever described: the session sends exactly one
// table to the model, so a database with several tables is answered against
// whichever table sqlite_master lists first.
package schema

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/asksql/internal/database"
)

// Querier is the subset of *sql.DB used for introspection.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// ColumnInfo describes one column as reported by PRAGMA table_info.
type ColumnInfo struct {
	Position   int     `json:"position"`
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	NotNull    bool    `json:"not_null"`
	Default    *string `json:"default,omitempty"`
	PrimaryKey int     `json:"primary_key"` // 1-based position in the key, 0 if not part of it
}

// TableSchema is a table name and its columns in declaration order.
type TableSchema struct {
	Name    string       `json:"name"`
	Columns []ColumnInfo `json:"columns"`
}

// NoTablesFoundError is returned when the catalog holds no user tables.
type NoTablesFoundError struct{}

func (e *NoTablesFoundError) Error() string {
	return "no tables found in the database"
}

const listTablesSQL = `
	SELECT name FROM sqlite_master
	WHERE type = 'table'
	AND name NOT LIKE 'sqlite_%'
`

// ListTables returns every user table in catalog order.
func ListTables(ctx context.Context, db Querier) ([]string, error) {
	rows, err := db.QueryContext(ctx, listTablesSQL)
	if err != nil {
		return nil, &database.AccessError{Cause: err}
	}
	defer func() { _ = rows.Close() }()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, &database.AccessError{Cause: err}
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, &database.AccessError{Cause: err}
	}
	return tables, nil
}

// Inspect returns the schema of the first user table.
func Inspect(ctx context.Context, db Querier) (*TableSchema, error) {
	tables, err := ListTables(ctx, db)
	if err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		return nil, &NoTablesFoundError{}
	}

	columns, err := Columns(ctx, db, tables[0])
	if err != nil {
		return nil, err
	}
	return &TableSchema{Name: tables[0], Columns: columns}, nil
}

// Columns reads PRAGMA table_info for table.
func Columns(ctx context.Context, db Querier, table string) ([]ColumnInfo, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", QuoteIdent(table)))
	if err != nil {
		return nil, &database.AccessError{Cause: fmt.Errorf("read columns of %s: %w", table, err)}
	}
	defer func() { _ = rows.Close() }()

	var columns []ColumnInfo
	for rows.Next() {
		var (
			col     ColumnInfo
			notNull int
			dflt    sql.NullString
		)
		if err := rows.Scan(&col.Position, &col.Name, &col.Type, &notNull, &dflt, &col.PrimaryKey); err != nil {
			return nil, &database.AccessError{Cause: fmt.Errorf("scan column of %s: %w", table, err)}
		}
		col.NotNull = notNull == 1
		if dflt.Valid {
			col.Default = &dflt.String
		}
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, &database.AccessError{Cause: err}
	}
	if len(columns) == 0 {
		return nil, &database.AccessError{Cause: errors.New("table " + table + " has no columns")}
	}
	return columns, nil
}

// QuoteIdent quotes a SQLite identifier.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
