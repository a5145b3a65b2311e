package output

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/leapstack-labs/asksql/internal/schema"
)

type schemaOutput struct {
	Name        string              `json:"name"`
	Columns     []schema.ColumnInfo `json:"columns"`
	OtherTables []string            `json:"other_tables"`
}

// Schema writes the table a session would use, followed by the tables it
// ignores.
func (r *Renderer) Schema(s *schema.TableSchema, tables []string) error {
	others := make([]string, 0, len(tables))
	for _, t := range tables {
		if t != s.Name {
			others = append(others, t)
		}
	}

	if r.format == FormatJSON {
		return encodeJSON(r.out, schemaOutput{Name: s.Name, Columns: s.Columns, OtherTables: others})
	}

	_, _ = fmt.Fprintf(r.out, "Table: %s\n", s.Name)
	_, _ = fmt.Fprintln(r.out, strings.Repeat("-", 60))

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault
	t.AppendHeader(table.Row{"Column", "Type", "Nullable", "Default"})

	for _, col := range s.Columns {
		nullable := "YES"
		if col.NotNull {
			nullable = "NO"
		}
		defaultVal := ""
		if col.Default != nil {
			defaultVal = *col.Default
		}
		if col.PrimaryKey > 0 {
			if defaultVal != "" {
				defaultVal += " "
			}
			defaultVal += "(primary key)"
		}
		t.AppendRow(table.Row{col.Name, col.Type, nullable, defaultVal})
	}
	t.Render()

	if len(others) > 0 {
		_, _ = fmt.Fprintln(r.out)
		_, _ = fmt.Fprintln(r.out, "Other tables (not used for questions):")
		for _, name := range others {
			_, _ = fmt.Fprintf(r.out, "  %s\n", name)
		}
	}
	return nil
}
