package config

import (
	"github.com/spf13/pflag"
)

// RegisterFlags adds the global flags that map onto config keys. Flag names
// are the kebab-case form of the koanf keys.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "config file (default: ./asksql.yaml)")
	fs.String("model", "", "Model name sent to the completion endpoint")
	fs.String("base-url", "", "Base URL of the OpenAI-compatible API")
	fs.Float64("temperature", DefaultTemperature, "Sampling temperature (0-2)")
	fs.Int("max-tokens", DefaultMaxTokens, "Maximum tokens in the completion")
	fs.Duration("timeout", 0, "HTTP timeout for the completion request (0 for none)")
	fs.StringP("format", "f", "", "Output format (table|json|csv|md)")
	fs.Bool("no-color", false, "Disable colored output")
	fs.BoolP("verbose", "v", false, "Verbose output")
}
