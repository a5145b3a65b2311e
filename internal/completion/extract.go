package completion

import (
	"regexp"
	"strings"

	"github.com/leapstack-labs/asksql/internal/sqltext"
)

// statementStarts maps each accepted leading keyword to the shape its first
// line must have, so that prose such as "Select customers with more than 5
// orders" or "With pleasure!" is not taken for a statement.
var statementStarts = map[string]*regexp.Regexp{
	// An item list starting with *, a literal, a parenthesis, or a
	// (qualified) name followed by the end of the line, punctuation, an
	// operator, AS or FROM.
	"SELECT":  regexp.MustCompile(`(?i)^SELECT\s+((DISTINCT|ALL)\s+)?(\*|\d|'|\(|"[^"]*"\s*($|[,;(=<>+\-*/|]|AS\b|FROM\b)|\w+(\.(\w+|\*))?\s*($|[,;(=<>+\-*/|]|AS\b|FROM\b))`),
	"WITH":    regexp.MustCompile(`(?i)^WITH\s+(RECURSIVE\s+)?("[^"]+"|\w+)\s*(\([^)]*\))?\s+AS\b`),
	"INSERT":  regexp.MustCompile(`(?i)^INSERT\s+(OR\s+\w+\s+)?INTO\s`),
	"REPLACE": regexp.MustCompile(`(?i)^REPLACE\s+INTO\s`),
	"UPDATE":  regexp.MustCompile(`(?i)^UPDATE\s+(OR\s+\w+\s+)?("[^"]+"|\w+)(\.("[^"]+"|\w+))?\s*($|SET\b)`),
	"DELETE":  regexp.MustCompile(`(?i)^DELETE\s+FROM\s`),
	"CREATE":  regexp.MustCompile(`(?i)^CREATE\s+((TEMP|TEMPORARY|UNIQUE|VIRTUAL)\s+)?(TABLE|VIEW|INDEX|TRIGGER)\s`),
	"DROP":    regexp.MustCompile(`(?i)^DROP\s+(TABLE|VIEW|INDEX|TRIGGER)\s`),
	"ALTER":   regexp.MustCompile(`(?i)^ALTER\s+TABLE\s`),
	"PRAGMA":  regexp.MustCompile(`(?i)^PRAGMA\s+[\w.]+\s*($|[=(;])`),
	"VALUES":  regexp.MustCompile(`(?i)^VALUES\s*\(`),
}

var explainPrefix = regexp.MustCompile(`(?i)^EXPLAIN\s+(QUERY\s+PLAN\s+)?`)

// ExtractSQL pulls one SQL statement out of free-form model output.
//
// Fenced code blocks are tried in order and the first one holding a
// statement wins; the unfenced text is the fallback. The statement is the
// first run of lines whose first line has the shape of a SQL statement. The
// run ends at a blank line, at the first ";" outside quotes and comments
// (kept), or at the end of the text.
func ExtractSQL(text string) (string, error) {
	for _, block := range fencedBlocks(text) {
		if sql := firstStatement(block); sql != "" {
			return sql, nil
		}
	}
	if sql := firstStatement(text); sql != "" {
		return sql, nil
	}
	return "", ErrEmptyCompletion
}

func firstStatement(body string) string {
	lines := strings.Split(body, "\n")

	start := -1
	for i, line := range lines {
		if startsStatement(strings.TrimSpace(line)) {
			start = i
			break
		}
	}
	if start < 0 {
		return ""
	}

	// Quotes are tracked from the statement start on; apostrophes in the
	// prose before it must not open a literal.
	lines = lines[start:]
	masked := strings.Split(sqltext.Mask(strings.Join(lines, "\n")), "\n")

	var stmt []string
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "```") {
			break
		}
		if end := strings.IndexByte(masked[i], ';'); end >= 0 {
			stmt = append(stmt, line[:end+1])
			break
		}
		stmt = append(stmt, strings.TrimRight(line, " \t\r"))
	}
	return strings.TrimSpace(strings.Join(stmt, "\n"))
}

// fencedBlocks returns the bodies of the ``` blocks in text, without the
// language tag. An unterminated fence runs to the end of the text.
func fencedBlocks(text string) []string {
	var blocks []string
	rest := text
	for {
		start := strings.Index(rest, "```")
		if start < 0 {
			return blocks
		}
		body := rest[start+3:]

		// Drop the info string ("sql", "sqlite", ...) on the opening line.
		if nl := strings.IndexByte(body, '\n'); nl >= 0 {
			info := strings.TrimSpace(body[:nl])
			if info == "" || !strings.ContainsAny(info, " \t") {
				body = body[nl+1:]
			}
		} else {
			body = strings.TrimPrefix(strings.TrimSpace(body), "sql")
		}

		end := strings.Index(body, "```")
		if end < 0 {
			return append(blocks, body)
		}
		blocks = append(blocks, body[:end])
		rest = body[end+3:]
	}
}

func startsStatement(line string) bool {
	if strings.HasSuffix(line, ":") {
		return false
	}
	if m := explainPrefix.FindString(line); m != "" {
		line = line[len(m):]
	}
	word := line
	if i := strings.IndexAny(line, " \t(;"); i >= 0 {
		word = line[:i]
	}
	shape, ok := statementStarts[strings.ToUpper(word)]
	return ok && shape.MatchString(line)
}
