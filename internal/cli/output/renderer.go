// Package output renders session progress and query results for the terminal.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/leapstack-labs/asksql/internal/executor"
)

// Format selects how result rows are written.
type Format string

// Supported result formats.
const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "md"
)

// Formats lists the accepted --format values.
var Formats = []string{string(FormatTable), string(FormatJSON), string(FormatCSV), string(FormatMarkdown)}

// ParseFormat validates a --format value. "markdown" is accepted for md and
// the empty string means table.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "table":
		return FormatTable, nil
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unknown output format %q (expected one of %s)", s, strings.Join(Formats, ", "))
}

// Renderer writes results to out and status lines (table in use, generated
// SQL, notices) to errOut, so piped result output stays clean.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	format Format
	styles *Styles
}

// NewRenderer creates a Renderer.
func NewRenderer(out, errOut io.Writer, format Format, color bool) *Renderer {
	if format == "" {
		format = FormatTable
	}
	return &Renderer{
		out:    out,
		errOut: errOut,
		format: format,
		styles: NewStyles(errOut, color),
	}
}

// Info writes a muted status line.
func (r *Renderer) Info(format string, args ...any) {
	_, _ = fmt.Fprintln(r.errOut, r.styles.Muted.Render(fmt.Sprintf(format, args...)))
}

// SQL writes the generated statement.
func (r *Renderer) SQL(stmt string) {
	_, _ = fmt.Fprintln(r.errOut, r.styles.Label.Render("Generated SQL:"))
	for _, line := range strings.Split(stmt, "\n") {
		_, _ = fmt.Fprintln(r.errOut, "  "+r.styles.SQL.Render(line))
	}
}

// Notice writes an advisory warning.
func (r *Renderer) Notice(n executor.Notice) {
	_, _ = fmt.Fprintln(r.errOut, r.styles.Warning.Render("Warning:")+" "+n.String())
}

// Error writes a one-line error message.
func (r *Renderer) Error(err error) {
	msg := strings.ReplaceAll(strings.TrimSpace(err.Error()), "\n", " | ")
	_, _ = fmt.Fprintln(r.errOut, r.styles.Error.Render("Error:")+" "+msg)
}

// Result writes a statement result in the configured format.
func (r *Renderer) Result(res *executor.Result) error {
	if !res.HasRows {
		return r.affected(res)
	}

	switch r.format {
	case FormatJSON:
		return renderJSON(r.out, res.Columns, res.Rows)
	case FormatCSV:
		return renderCSV(r.out, res.Columns, res.Rows)
	case FormatMarkdown:
		err := renderMarkdown(r.out, res.Columns, res.Rows)
		r.rowCount(len(res.Rows))
		return err
	default:
		err := renderTable(r.out, res.Columns, res.Rows)
		r.rowCount(len(res.Rows))
		return err
	}
}

func (r *Renderer) rowCount(n int) {
	if n == 0 {
		r.Info("(Query executed successfully, but returned no matching rows)")
		return
	}
	r.Info("Fetched %d %s.", n, plural(n, "row", "rows"))
}

func (r *Renderer) affected(res *executor.Result) error {
	if r.format == FormatJSON {
		return encodeJSON(r.out, map[string]int64{"rows_affected": res.RowsAffected})
	}
	_, err := fmt.Fprintln(r.out, r.styles.Success.Render(fmt.Sprintf(
		"Statement executed, %d %s affected. Changes committed.",
		res.RowsAffected, plural(int(res.RowsAffected), "row", "rows"),
	)))
	return err
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
