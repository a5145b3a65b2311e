package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/asksql/internal/cli/config"
)

// effectiveConfig is the YAML view of the loaded config. The API key is
// masked.
type effectiveConfig struct {
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	Timeout     string  `yaml:"timeout"`
	Format      string  `yaml:"format"`
	NoColor     bool    `yaml:"no_color"`
	Verbose     bool    `yaml:"verbose"`
}

// NewConfigCommand creates the config command.
func NewConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration after defaults, config file, environment
variables and flags have been applied. The API key is masked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetConfig(cmd.Context())

			data, err := yaml.Marshal(effectiveConfig{
				APIKey:      cfg.MaskedAPIKey(),
				BaseURL:     cfg.BaseURL,
				Model:       cfg.Model,
				Temperature: cfg.Temperature,
				MaxTokens:   cfg.MaxTokens,
				Timeout:     cfg.Timeout.String(),
				Format:      cfg.Format,
				NoColor:     cfg.NoColor,
				Verbose:     cfg.Verbose,
			})
			if err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
