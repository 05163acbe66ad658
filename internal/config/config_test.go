package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sqlvalue.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultDBPath, cfg.DBPath)
	assert.Equal(t, DefaultInputFormat, cfg.InputFormat)
	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.Equal(t, "auto", cfg.Color)
	assert.Equal(t, DefaultMaxDepth, cfg.MaxDepth)
	assert.False(t, cfg.InMemory)
	assert.Empty(t, cfg.File)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `db_path: /tmp/records
input_format: yaml
output: table
max_depth: 64
`)
	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/records", cfg.DBPath)
	assert.Equal(t, "yaml", cfg.InputFormat)
	assert.Equal(t, "table", cfg.Output)
	assert.Equal(t, 64, cfg.MaxDepth)
	assert.Equal(t, path, cfg.File)
}

func TestLoadFileInWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFile), []byte("output: edn\n"), 0600))
	t.Chdir(dir)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "edn", cfg.Output)
	assert.Equal(t, DefaultFile, cfg.File)
}

func TestLoadPrecedence(t *testing.T) {
	path := writeConfig(t, "output: table\nmax_depth: 10\n")

	t.Run("env overrides file", func(t *testing.T) {
		t.Setenv("SQLVALUE_OUTPUT", "edn")
		t.Setenv("SQLVALUE_MAX_DEPTH", "20")

		cfg, err := Load(path, nil)
		require.NoError(t, err)
		assert.Equal(t, "edn", cfg.Output)
		assert.Equal(t, 20, cfg.MaxDepth)
	})

	t.Run("flag overrides env", func(t *testing.T) {
		t.Setenv("SQLVALUE_OUTPUT", "edn")

		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flags.String("output", "", "output format")
		flags.Int("max-depth", 0, "nesting bound")
		require.NoError(t, flags.Set("output", "text"))

		cfg, err := Load(path, flags)
		require.NoError(t, err)
		assert.Equal(t, "text", cfg.Output)
		// unset flags do not clobber lower layers
		assert.Equal(t, 10, cfg.MaxDepth)
	})

	t.Run("kebab flag names", func(t *testing.T) {
		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flags.Bool("in-memory", false, "")
		flags.String("db-path", "", "")
		require.NoError(t, flags.Set("in-memory", "true"))
		require.NoError(t, flags.Set("db-path", ""))

		cfg, err := Load(path, flags)
		require.NoError(t, err)
		assert.True(t, cfg.InMemory)
		assert.Empty(t, cfg.DBPath)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		err    string
	}{
		{"input format", func(c *Config) { c.InputFormat = "toml" }, `invalid input_format "toml"`},
		{"output", func(c *Config) { c.Output = "csv" }, `invalid output "csv"`},
		{"color", func(c *Config) { c.Color = "blue" }, `invalid color mode "blue"`},
		{"log level", func(c *Config) { c.LogLevel = "loud" }, `invalid log_level "loud"`},
		{"log format", func(c *Config) { c.LogFormat = "xml" }, `invalid log_format "xml"`},
		{"max depth", func(c *Config) { c.MaxDepth = -1 }, "max_depth must not be negative"},
		{"db path", func(c *Config) { c.DBPath = "" }, "db_path is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				DBPath:      "x",
				InputFormat: "edn",
				Output:      "text",
				Color:       "auto",
				LogLevel:    "info",
				LogFormat:   "text",
			}
			require.NoError(t, cfg.Validate())

			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.err)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{LogLevel: "info", LogFormat: "json"}

	logger, err := cfg.NewLogger(&buf)
	require.NoError(t, err)
	logger.Debug("hidden")
	logger.Info("shown", "records", 3)

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"records":3`)
}
