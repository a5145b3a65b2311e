// Package session runs one question through the pipeline: validate the
// database path, inspect the first table, build the prompt, ask the model,
// execute the statement and report the result.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/asksql/internal/completion"
	"github.com/leapstack-labs/asksql/internal/database"
	"github.com/leapstack-labs/asksql/internal/executor"
	"github.com/leapstack-labs/asksql/internal/prompt"
	"github.com/leapstack-labs/asksql/internal/schema"
)

var (
	// ErrNoQuestion is returned when the question is blank.
	ErrNoQuestion = errors.New("no question provided")
	// ErrInputCancelled is returned when interactive input is interrupted or
	// reaches end of file.
	ErrInputCancelled = errors.New("input cancelled")
)

// Asker obtains a question interactively. table names the table the question
// will be answered against.
type Asker interface {
	Ask(ctx context.Context, table string) (string, error)
}

// Reporter receives progress and results. output.Renderer implements it.
type Reporter interface {
	Info(format string, args ...any)
	SQL(stmt string)
	Notice(n executor.Notice)
	Result(res *executor.Result) error
}

// Options are the per-invocation inputs.
type Options struct {
	DatabasePath string
	Question     string // asked through the Asker when empty
}

// Report summarizes a completed session.
type Report struct {
	Table    *schema.TableSchema
	Question string
	Query    completion.GeneratedQuery
	Result   *executor.Result
}

// Driver holds the collaborators of a session.
type Driver struct {
	Completer completion.Completer
	Asker     Asker
	Reporter  Reporter
	Logger    *slog.Logger
}

// Run executes the stages in order and stops at the first failure. The
// database connection is closed before Run returns.
func (d *Driver) Run(ctx context.Context, opts Options) (*Report, error) {
	logger := d.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if d.Completer == nil {
		return nil, fmt.Errorf("session: no completer configured")
	}

	if err := database.ValidatePath(opts.DatabasePath); err != nil {
		return nil, err
	}

	db, err := database.Open(ctx, opts.DatabasePath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logger.Warn("failed to close database", slog.String("error", cerr.Error()))
		}
	}()
	logger.Debug("database opened", slog.String("path", opts.DatabasePath))

	table, err := schema.Inspect(ctx, db)
	if err != nil {
		return nil, err
	}
	d.info("Using the first table found: %q (%d columns)", table.Name, len(table.Columns))
	logger.Debug("schema inspected", slog.String("table", table.Name), slog.Int("columns", len(table.Columns)))

	question, err := d.question(ctx, opts.Question, table.Name)
	if err != nil {
		return nil, err
	}

	p := prompt.Build(*table, question)
	query, err := d.Completer.Complete(ctx, p)
	if err != nil {
		return nil, err
	}
	logger.Info("sql generated", slog.String("model", query.Model), slog.String("sql", query.SQL))
	if d.Reporter != nil {
		d.Reporter.SQL(query.SQL)
	}

	exec := executor.New(db, d.notice, logger)
	result, err := exec.Execute(ctx, query.SQL)
	if err != nil {
		return nil, err
	}

	if d.Reporter != nil {
		if err := d.Reporter.Result(result); err != nil {
			return nil, fmt.Errorf("render result: %w", err)
		}
	}

	return &Report{Table: table, Question: question, Query: query, Result: result}, nil
}

func (d *Driver) question(ctx context.Context, given, table string) (string, error) {
	if q := strings.TrimSpace(given); q != "" {
		d.info("Using provided question: %s", q)
		return q, nil
	}
	if d.Asker == nil {
		return "", ErrNoQuestion
	}

	q, err := d.Asker.Ask(ctx, table)
	if err != nil {
		return "", err
	}
	q = strings.TrimSpace(q)
	if q == "" {
		return "", ErrNoQuestion
	}
	return q, nil
}

func (d *Driver) info(format string, args ...any) {
	if d.Reporter != nil {
		d.Reporter.Info(format, args...)
	}
}

func (d *Driver) notice(n executor.Notice) {
	if d.Reporter != nil {
		d.Reporter.Notice(n)
	}
}
