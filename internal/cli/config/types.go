// Package config provides configuration management for the asksql CLI.
//
// Values are layered, lowest precedence first: built-in defaults, a YAML
// config file, GROQ_API_KEY, ASKSQL_* environment variables and explicitly
// set command-line flags.
package config

import (
	"time"

	"github.com/leapstack-labs/asksql/internal/cli/output"
	"github.com/leapstack-labs/asksql/internal/completion"
)

// Config holds all CLI configuration options.
type Config struct {
	APIKey      string        `koanf:"api_key"`
	BaseURL     string        `koanf:"base_url"`
	Model       string        `koanf:"model"`
	Temperature float64       `koanf:"temperature"`
	MaxTokens   int           `koanf:"max_tokens"`
	Timeout     time.Duration `koanf:"timeout"` // zero disables the HTTP client timeout
	Format      string        `koanf:"format"`
	NoColor     bool          `koanf:"no_color"`
	Verbose     bool          `koanf:"verbose"`
}

// Default configuration values.
const (
	DefaultBaseURL     = completion.DefaultBaseURL
	DefaultModel       = completion.DefaultModel
	DefaultTemperature = completion.DefaultTemperature
	DefaultMaxTokens   = completion.DefaultMaxTokens
	DefaultFormat      = string(output.FormatTable)

	// DefaultAPIKey is used when no key is configured. The completion
	// client refuses to send it.
	DefaultAPIKey = completion.PlaceholderAPIKey
)

// Config file names searched in the working directory.
const (
	ConfigFileName    = "asksql.yaml"
	ConfigFileNameAlt = "asksql.yml"
)

// HasAPIKey reports whether a real API key is configured.
func (c *Config) HasAPIKey() bool {
	return c.APIKey != "" && c.APIKey != DefaultAPIKey
}

// MaskedAPIKey returns the API key with all but the last four characters
// hidden.
func (c *Config) MaskedAPIKey() string {
	if !c.HasAPIKey() {
		return "(not set)"
	}
	if len(c.APIKey) <= 4 {
		return "****"
	}
	return "****" + c.APIKey[len(c.APIKey)-4:]
}
