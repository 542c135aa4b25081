package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/hastd/internal/api"
	"github.com/jackzampolin/hastd/internal/config"
	"github.com/jackzampolin/hastd/internal/home"
	"github.com/jackzampolin/hastd/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
	logLevel     string
)

var rootCmd = &cobra.Command{
	Use:   "hastd",
	Short: "Schema-driven structured extraction from documents with LLMs",
	Long: `hastd turns unstructured document text into JSON that matches a schema.

A schema is decomposed into one task per leaf field. Each field is
extracted by its own LLM call, checked against its schema fragment,
and corrected with the validation errors fed back when it fails.
Accepted values are merged into one nested document and scored for
confidence.

Run it locally with 'hastd extract' or as a service with 'hastd serve'.`,
	Version:       version.GitRelease,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.hastd/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "hastd home directory (default: ~/.hastd)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "", "log level: debug, info, warn, error (default from config)",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves the home directory and loads configuration from
// --config, ./config.yaml or the home directory, in that order.
func loadConfig() (*home.Dir, *config.Manager, error) {
	h, err := home.New(homeDir)
	if err != nil {
		return nil, nil, err
	}
	mgr, err := config.NewManager(cfgFile, h.Path())
	if err != nil {
		return nil, nil, err
	}
	return h, mgr, nil
}

// newLogger builds the process logger. --log-level wins over the config's
// log_level. Logs go to stderr so command output stays parseable.
func newLogger(cfg *config.Config) (*slog.Logger, error) {
	name := logLevel
	if name == "" {
		name = cfg.LogLevel
	}
	var level slog.Level
	if name != "" {
		if err := level.UnmarshalText([]byte(name)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", name, err)
		}
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})), nil
}
