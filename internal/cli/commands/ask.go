package commands

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/asksql/internal/completion"
	"github.com/leapstack-labs/asksql/internal/session"
)

// AskOptions holds options for the root command.
type AskOptions struct {
	Query string
}

// RunAsk answers one question about the first table of the database at
// dbPath. Without a query the question is read from the command's input.
func RunAsk(cmd *cobra.Command, dbPath string, opts *AskOptions) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	logger := cc.Logger.With("session_id", uuid.NewString())
	logger.Debug("starting session", "database", dbPath, "model", cc.Cfg.Model)

	client := completion.NewClient(completion.Config{
		BaseURL:     cc.Cfg.BaseURL,
		APIKey:      cc.Cfg.APIKey,
		Model:       cc.Cfg.Model,
		Temperature: cc.Cfg.Temperature,
		MaxTokens:   cc.Cfg.MaxTokens,
		Timeout:     cc.Cfg.Timeout,
		Logger:      logger,
	})

	driver := &session.Driver{
		Completer: client,
		Asker:     NewAsker(cmd.InOrStdin(), cmd.ErrOrStderr()),
		Reporter:  cc.Renderer,
		Logger:    logger,
	}

	report, err := driver.Run(cmd.Context(), session.Options{
		DatabasePath: dbPath,
		Question:     opts.Query,
	})
	if err != nil {
		return err
	}

	logger.Debug("session finished",
		"table", report.Table.Name,
		"elapsed", report.Result.Elapsed,
	)
	return nil
}
