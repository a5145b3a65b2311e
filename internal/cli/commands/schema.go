package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/asksql/internal/database"
	"github.com/leapstack-labs/asksql/internal/schema"
)

// NewSchemaCommand creates the schema command.
func NewSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema <database-path>",
		Short: "Show the table questions are answered against",
		Long: `Show the first table of a SQLite database and its columns.

Questions are always answered against this table. Other tables in the
database are listed but never sent to the model.`,
		Example: `  asksql schema shop.db
  asksql schema shop.db --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchema(cmd, args[0])
		},
	}
}

func runSchema(cmd *cobra.Command, path string) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	if err := database.ValidatePath(path); err != nil {
		return err
	}
	db, err := database.Open(ctx, path)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	tables, err := schema.ListTables(ctx, db)
	if err != nil {
		return err
	}
	s, err := schema.Inspect(ctx, db)
	if err != nil {
		return err
	}
	cc.Logger.Debug("inspected schema", "table", s.Name, "tables", len(tables))

	return cc.Renderer.Schema(s, tables)
}
