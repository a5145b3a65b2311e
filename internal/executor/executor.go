// Package executor runs a generated SQL statement on the session connection.
package executor

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/leapstack-labs/asksql/internal/sqltext"
)

// DB is the subset of *sql.DB the executor needs.
type DB interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Notice is an advisory message raised before a statement runs.
type Notice struct {
	Keyword   string
	Statement string
}

func (n Notice) String() string {
	kw := n.Keyword
	if kw == "" {
		kw = "non-SELECT"
	}
	return fmt.Sprintf("generated statement is %s, not SELECT; it may modify data", kw)
}

// NoticeFunc receives notices. It must not block.
type NoticeFunc func(Notice)

// Result is the outcome of one statement: rows with column names, or the
// number of affected rows.
type Result struct {
	Statement    string
	Columns      []string
	Rows         [][]any
	HasRows      bool // true when the statement was run as a query
	RowsAffected int64
	Elapsed      time.Duration
}

// QueryError is returned when the database rejects a statement.
type QueryError struct {
	Statement string
	Cause     error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query failed: %v (statement: %s)", e.Cause, e.Statement)
}

func (e *QueryError) Unwrap() error {
	return e.Cause
}

// Executor runs statements on one connection.
type Executor struct {
	db       DB
	onNotice NoticeFunc
	logger   *slog.Logger
}

// New creates an Executor. onNotice and logger may be nil.
func New(db DB, onNotice NoticeFunc, logger *slog.Logger) *Executor {
	if onNotice == nil {
		onNotice = func(Notice) {}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Executor{db: db, onNotice: onNotice, logger: logger}
}

// rowKeywords start statements that produce a result set.
var rowKeywords = map[string]bool{
	"SELECT":  true,
	"WITH":    true,
	"VALUES":  true,
	"PRAGMA":  true,
	"EXPLAIN": true,
}

// returningKeywords start statements that produce rows only with a
// RETURNING clause.
var returningKeywords = map[string]bool{
	"INSERT":  true,
	"UPDATE":  true,
	"DELETE":  true,
	"REPLACE": true,
}

var returningClause = regexp.MustCompile(`(?i)\bRETURNING\b`)

// producesRows reports whether stmt yields a result set. RETURNING only
// counts outside string literals, quoted identifiers and comments.
func producesRows(keyword, stmt string) bool {
	if rowKeywords[keyword] {
		return true
	}
	return returningKeywords[keyword] && returningClause.MatchString(sqltext.Mask(stmt))
}

// Execute runs stmt. A statement whose leading keyword is not SELECT raises a
// Notice first and then runs anyway. Data-modifying statements are committed
// by SQLite's autocommit as soon as they complete.
func (e *Executor) Execute(ctx context.Context, stmt string) (*Result, error) {
	stmt = strings.TrimSpace(stmt)
	if stmt == "" {
		return nil, &QueryError{Statement: stmt, Cause: fmt.Errorf("empty statement")}
	}

	keyword := LeadingKeyword(stmt)
	if keyword != "SELECT" {
		e.onNotice(Notice{Keyword: keyword, Statement: stmt})
		e.logger.Warn("executing non-SELECT statement", slog.String("keyword", keyword))
	}

	start := time.Now()
	var (
		res *Result
		err error
	)
	if producesRows(keyword, stmt) {
		res, err = e.query(ctx, stmt)
	} else {
		res, err = e.exec(ctx, stmt)
	}
	if err != nil {
		return nil, &QueryError{Statement: stmt, Cause: err}
	}
	res.Elapsed = time.Since(start)

	e.logger.Debug("statement executed",
		slog.Bool("has_rows", res.HasRows),
		slog.Int("rows", len(res.Rows)),
		slog.Int64("rows_affected", res.RowsAffected),
		slog.Duration("elapsed", res.Elapsed),
	)
	return res, nil
}

func (e *Executor) query(ctx context.Context, stmt string) (*Result, error) {
	//nolint:rowserrcheck // rows.Err() is checked after iteration
	rows, err := e.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	res := &Result{Statement: stmt, Columns: cols, HasRows: true, Rows: [][]any{}}
	for rows.Next() {
		values := make([]any, len(cols))
		valuePtrs := make([]any, len(cols))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}
		for i, v := range values {
			// Convert []byte to string for readability
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		res.Rows = append(res.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

func (e *Executor) exec(ctx context.Context, stmt string) (*Result, error) {
	r, err := e.db.ExecContext(ctx, stmt)
	if err != nil {
		return nil, err
	}
	affected, err := r.RowsAffected()
	if err != nil {
		return nil, err
	}
	return &Result{Statement: stmt, RowsAffected: affected}, nil
}

// LeadingKeyword returns the upper-cased first word of stmt, skipping
// whitespace and SQL comments.
func LeadingKeyword(stmt string) string {
	s := stripLeadingComments(stmt)
	end := strings.IndexFunc(s, func(r rune) bool {
		return (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && r != '_'
	})
	if end < 0 {
		end = len(s)
	}
	return strings.ToUpper(s[:end])
}

func stripLeadingComments(s string) string {
	for {
		s = strings.TrimSpace(s)
		switch {
		case strings.HasPrefix(s, "--"):
			nl := strings.IndexByte(s, '\n')
			if nl < 0 {
				return ""
			}
			s = s[nl+1:]
		case strings.HasPrefix(s, "/*"):
			end := strings.Index(s, "*/")
			if end < 0 {
				return ""
			}
			s = s[end+2:]
		default:
			return s
		}
	}
}
