// Package cli provides the command-line interface for asksql.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/asksql/internal/cli/commands"
	"github.com/leapstack-labs/asksql/internal/cli/config"
	"github.com/leapstack-labs/asksql/internal/cli/output"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	opts := &commands.AskOptions{}

	rootCmd := &cobra.Command{
		Use:   "asksql <database-path>",
		Short: "Ask questions about a SQLite table in plain language",
		Long: `asksql turns a natural-language question into SQL for the first table of
a SQLite database, runs the statement and prints the result.

The statement is produced by an OpenAI-compatible chat completion API
(Groq by default). Set GROQ_API_KEY or ASKSQL_API_KEY before use.
Statements other than SELECT are executed and committed after a warning.`,
		Example: `  # Ask a question directly
  asksql shop.db -q "Which customers live in Paris?"

  # Be prompted for the question
  asksql shop.db

  # Emit JSON for scripting
  asksql shop.db -q "How many orders per customer?" --format json`,
		Version: Version,
		Args:    cobra.ExactArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfgFile, _ := cmd.Flags().GetString("config")
			cfg, used, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}

			logger := config.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)
			if used != "" {
				logger.Debug("using config file", "path", used)
			}
			if !cfg.HasAPIKey() && cmd == cmd.Root() {
				logger.Warn("no API key configured; set " + config.APIKeyEnv + " or " + config.EnvPrefix + "API_KEY")
			}

			ctx := config.WithLogger(cmd.Context(), logger)
			cmd.SetContext(config.WithConfig(ctx, cfg))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.RunAsk(cmd, args[0], opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	config.RegisterFlags(rootCmd.PersistentFlags())
	rootCmd.Flags().StringVarP(&opts.Query, "query", "q", "", "Question to ask (prompted for when omitted)")

	_ = rootCmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return output.Formats, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(commands.NewVersionCommand(Version, GitCommit))
	rootCmd.AddCommand(commands.NewSchemaCommand())
	rootCmd.AddCommand(commands.NewConfigCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// Execute runs the root command. Errors are printed once, on a single line.
func Execute() error {
	return run(NewRootCmd())
}

func run(rootCmd *cobra.Command) error {
	if err := rootCmd.Execute(); err != nil {
		noColor, _ := rootCmd.PersistentFlags().GetBool("no-color")
		output.NewRenderer(rootCmd.OutOrStdout(), rootCmd.ErrOrStderr(), output.FormatTable, !noColor).Error(err)
		return err
	}
	return nil
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for asksql.

To load completions:

Bash:
  $ source <(asksql completion bash)

Zsh:
  $ asksql completion zsh > "${fpath[1]}/_asksql"

Fish:
  $ asksql completion fish | source

PowerShell:
  PS> asksql completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}
