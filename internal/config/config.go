// Package config loads CLI settings from defaults, an optional YAML file,
// SQLVALUE_ environment variables and command-line flags.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/wbrown/janus-values/sqlvalue/render"
)

const (
	// DefaultFile is looked up in the working directory when no file is given
	DefaultFile = "sqlvalue.yaml"
	// EnvPrefix marks environment variables read as settings
	EnvPrefix = "SQLVALUE_"

	DefaultDBPath      = "sqlvalue.db"
	DefaultInputFormat = "edn"
	DefaultOutput      = "text"
	DefaultLogLevel    = "warn"
	DefaultLogFormat   = "text"
	DefaultMaxDepth    = 512
)

// Config holds all CLI configuration options
type Config struct {
	DBPath      string `koanf:"db_path"`
	InMemory    bool   `koanf:"in_memory"`
	InputFormat string `koanf:"input_format"`
	Output      string `koanf:"output"`
	Color       string `koanf:"color"`
	LogLevel    string `koanf:"log_level"`
	LogFormat   string `koanf:"log_format"`
	MaxDepth    int    `koanf:"max_depth"`

	// File is the config file that was read, if any
	File string `koanf:"-"`
}

func defaults() map[string]any {
	return map[string]any{
		"db_path":      DefaultDBPath,
		"in_memory":    false,
		"input_format": DefaultInputFormat,
		"output":       DefaultOutput,
		"color":        string(render.ColorAuto),
		"log_level":    DefaultLogLevel,
		"log_format":   DefaultLogFormat,
		"max_depth":    DefaultMaxDepth,
	}
}

// Load reads configuration. Precedence (highest to lowest): explicitly
// set flags > env vars > config file > defaults. An empty cfgFile falls
// back to DefaultFile when it exists.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// SQLVALUE_DB_PATH -> db_path
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = used

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// findConfigFile picks the explicit path, else DefaultFile if present
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(DefaultFile); err == nil {
		return DefaultFile
	}
	return ""
}

// Validate checks enumerated settings
func (c *Config) Validate() error {
	switch c.InputFormat {
	case "edn", "yaml", "json":
	default:
		return fmt.Errorf("invalid input_format %q (want edn, yaml or json)", c.InputFormat)
	}
	switch c.Output {
	case "text", "table", "edn":
	default:
		return fmt.Errorf("invalid output %q (want text, table or edn)", c.Output)
	}
	if _, err := render.ParseColorMode(c.Color); err != nil {
		return err
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log_format %q (want text or json)", c.LogFormat)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative, got %d", c.MaxDepth)
	}
	if c.DBPath == "" && !c.InMemory {
		return fmt.Errorf("db_path is required unless in_memory is set")
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", s, err)
	}
	return level, nil
}

// NewLogger builds the logger described by the config, writing to w
func (c *Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}
