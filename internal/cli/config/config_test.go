package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test in an empty directory with no config-related
// environment.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("HOME", dir)
	for _, name := range []string{APIKeyEnv, "ASKSQL_API_KEY", "ASKSQL_MODEL", "ASKSQL_BASE_URL", "ASKSQL_MAX_TOKENS", "ASKSQL_FORMAT"} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
	return dir
}

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	fs.StringP("query", "q", "", "")
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, used, err := Load("", newFlags(t))
	require.NoError(t, err)

	assert.Empty(t, used)
	assert.Equal(t, DefaultAPIKey, cfg.APIKey)
	assert.False(t, cfg.HasAPIKey())
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, DefaultModel, cfg.Model)
	assert.InDelta(t, DefaultTemperature, cfg.Temperature, 1e-9)
	assert.Equal(t, DefaultMaxTokens, cfg.MaxTokens)
	assert.Equal(t, time.Duration(0), cfg.Timeout)
	assert.Equal(t, "table", cfg.Format)
	assert.False(t, cfg.Verbose)
}

func TestLoad_Layering(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(`
model: file-model
base_url: http://file.example/v1
max_tokens: 300
timeout: 15s
format: csv
`), 0o600))

	t.Setenv(APIKeyEnv, "gsk-from-groq")
	t.Setenv("ASKSQL_BASE_URL", "http://env.example/v1")

	cfg, used, err := Load("", newFlags(t, "--model", "flag-model", "-q", "ignored"))
	require.NoError(t, err)

	assert.Equal(t, ConfigFileName, used)
	assert.Equal(t, "gsk-from-groq", cfg.APIKey)
	assert.True(t, cfg.HasAPIKey())
	assert.Equal(t, "flag-model", cfg.Model, "flag beats file")
	assert.Equal(t, "http://env.example/v1", cfg.BaseURL, "env beats file")
	assert.Equal(t, 300, cfg.MaxTokens)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
	assert.Equal(t, "csv", cfg.Format)
}

func TestLoad_PrefixedKeyBeatsProviderKey(t *testing.T) {
	isolate(t)
	t.Setenv(APIKeyEnv, "gsk-groq")
	t.Setenv("ASKSQL_API_KEY", "gsk-asksql")

	cfg, _, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "gsk-asksql", cfg.APIKey)
}

func TestLoad_UnchangedFlagsDoNotOverride(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileNameAlt), []byte("max_tokens: 512\n"), 0o600))

	cfg, used, err := Load("", newFlags(t, "--verbose"))
	require.NoError(t, err)

	assert.Equal(t, ConfigFileNameAlt, used)
	assert.Equal(t, 512, cfg.MaxTokens)
	assert.True(t, cfg.Verbose)
}

func TestLoad_ExplicitConfigFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("temperature: 0.7\nno_color: true\n"), 0o600))

	cfg, used, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, path, used)
	assert.InDelta(t, 0.7, cfg.Temperature, 1e-9)
	assert.True(t, cfg.NoColor)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		args    []string
		wantErr string
	}{
		{name: "missing explicit file", file: "nope.yaml", wantErr: "error reading config file"},
		{name: "bad format flag", args: []string{"--format", "xml"}, wantErr: "invalid configuration"},
		{name: "temperature out of range", args: []string{"--temperature", "3"}, wantErr: "temperature"},
		{name: "zero max tokens", args: []string{"--max-tokens", "0"}, wantErr: "max_tokens"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			_, _, err := Load(tt.file, newFlags(t, tt.args...))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{Model: "m", Temperature: 0.2, MaxTokens: 150, Format: "table"}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "empty format means table", mutate: func(c *Config) { c.Format = "" }},
		{name: "markdown alias", mutate: func(c *Config) { c.Format = "markdown" }},
		{name: "unknown format", mutate: func(c *Config) { c.Format = "yaml" }, wantErr: true},
		{name: "empty model", mutate: func(c *Config) { c.Model = "" }, wantErr: true},
		{name: "negative temperature", mutate: func(c *Config) { c.Temperature = -0.1 }, wantErr: true},
		{name: "temperature upper bound", mutate: func(c *Config) { c.Temperature = 2 }},
		{name: "negative max tokens", mutate: func(c *Config) { c.MaxTokens = -1 }, wantErr: true},
		{name: "negative timeout", mutate: func(c *Config) { c.Timeout = -time.Second }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_MaskedAPIKey(t *testing.T) {
	assert.Equal(t, "(not set)", (&Config{APIKey: DefaultAPIKey}).MaskedAPIKey())
	assert.Equal(t, "(not set)", (&Config{}).MaskedAPIKey())
	assert.Equal(t, "****", (&Config{APIKey: "abc"}).MaskedAPIKey())
	assert.Equal(t, "****wxyz", (&Config{APIKey: "gsk_secretwxyz"}).MaskedAPIKey())
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()

	assert.NotNil(t, GetLogger(ctx), "falls back to a discard logger")
	assert.Equal(t, DefaultModel, GetConfig(ctx).Model)

	logger := NewLogger(os.Stderr, true)
	cfg := &Config{Model: "x"}
	ctx = WithConfig(WithLogger(ctx, logger), cfg)

	assert.Same(t, logger, GetLogger(ctx))
	assert.Same(t, cfg, GetConfig(ctx))
	assert.Same(t, logger, ctx.Value(LoggerKey()))
}
