// Package cli provides the command-line interface for sqlvalue.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/wbrown/janus-values/internal/config"
	"github.com/wbrown/janus-values/sqlvalue/storage"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

// envKey is used to store the command environment in context
type envKey struct{}

// env is what every subcommand runs with
type env struct {
	cfg    *config.Config
	logger *slog.Logger
	store  storage.Store // preset store, owned by the caller
}

// Option customizes the root command
type Option func(*env)

// WithStore makes record commands use s instead of opening the configured
// database. The caller keeps ownership of s.
func WithStore(s storage.Store) Option {
	return func(e *env) { e.store = s }
}

// NewRootCmd creates and returns the root command.
func NewRootCmd(opts ...Option) *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "sqlvalue",
		Short: "Convert data into dynamic values and store them as records",
		Long: `sqlvalue converts EDN, YAML and JSON documents into dynamic values,
prints them as text, tables or EDN, and keeps them as records in a
BadgerDB database addressed by record ids such as person:tobie.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			logger, err := cfg.NewLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if cfg.File != "" {
				logger.Debug("using config file", "path", cfg.File)
			}

			e := &env{cfg: cfg, logger: logger}
			for _, opt := range opts {
				opt(e)
			}
			cmd.SetContext(context.WithValue(cmd.Context(), envKey{}, e))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./"+config.DefaultFile+")")
	flags.String("db-path", "", "Path to the record database")
	flags.Bool("in-memory", false, "Keep records in memory only")
	flags.StringP("input-format", "f", "", "Input format (edn|yaml|json)")
	flags.StringP("output", "o", "", "Output format (text|table|edn)")
	flags.String("color", "", "Color output (auto|always|never)")
	flags.String("log-level", "", "Log level (debug|info|warn|error)")
	flags.String("log-format", "", "Log format (text|json)")
	flags.Int("max-depth", 0, "Maximum nesting depth of input documents")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"text", "table", "edn"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("input-format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"edn", "yaml", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newVersionCommand())
	rootCmd.AddCommand(newConvertCommand())
	rootCmd.AddCommand(newPutCommand())
	rootCmd.AddCommand(newLoadCommand())
	rootCmd.AddCommand(newGetCommand())
	rootCmd.AddCommand(newScanCommand())
	rootCmd.AddCommand(newDeleteCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// envFrom retrieves the command environment from context
func envFrom(ctx context.Context) *env {
	if e, ok := ctx.Value(envKey{}).(*env); ok {
		return e
	}
	// commands run without the root pre-run get defaults
	cfg := &config.Config{
		DBPath:      config.DefaultDBPath,
		InputFormat: config.DefaultInputFormat,
		Output:      config.DefaultOutput,
		Color:       "auto",
		LogLevel:    config.DefaultLogLevel,
		LogFormat:   config.DefaultLogFormat,
		MaxDepth:    config.DefaultMaxDepth,
	}
	return &env{cfg: cfg, logger: slog.New(slog.DiscardHandler)}
}

// openStore returns the store for record commands and a func releasing it
func (e *env) openStore() (storage.Store, func(), error) {
	if e.store != nil {
		return e.store, func() {}, nil
	}
	s, err := storage.NewBadgerStore(storage.Options{
		Path:     e.cfg.DBPath,
		InMemory: e.cfg.InMemory,
		Logger:   e.logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return s, func() {
		if err := s.Close(); err != nil {
			e.logger.Error("failed to close store", "error", err)
		}
	}, nil
}
