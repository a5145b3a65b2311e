// Package prompt turns a table schema and a question into chat messages.
package prompt

import (
	"strings"

	"github.com/leapstack-labs/asksql/internal/schema"
)

// System is the fixed instruction sent with every request.
const System = "You convert plain English questions into a single SQL statement for a SQLite database. " +
	"Use only the table and columns you are given. " +
	"Reply with the SQL statement only: no explanation, no markdown, no comments. " +
	"Prefer SELECT statements; generate INSERT, UPDATE or DELETE only when the question explicitly asks to change data."

// Prompt is a system instruction plus the user message for one question.
type Prompt struct {
	System string
	User   string
}

// Build formats the table schema and the question into a Prompt.
// It has no side effects: equal inputs produce equal output.
func Build(table schema.TableSchema, question string) Prompt {
	var b strings.Builder

	b.WriteString("Table: ")
	b.WriteString(schema.QuoteIdent(table.Name))
	b.WriteString("\nColumns:\n")
	for _, col := range table.Columns {
		b.WriteString("- ")
		b.WriteString(schema.QuoteIdent(col.Name))
		if col.Type != "" {
			b.WriteString(" ")
			b.WriteString(col.Type)
		}
		if col.PrimaryKey > 0 {
			b.WriteString(" PRIMARY KEY")
		}
		if col.NotNull {
			b.WriteString(" NOT NULL")
		}
		b.WriteString("\n")
	}
	b.WriteString("\nQuestion: ")
	b.WriteString(strings.TrimSpace(question))

	return Prompt{System: System, User: b.String()}
}
