package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/hastd/internal/api"
	"github.com/jackzampolin/hastd/internal/config"
	"github.com/jackzampolin/hastd/internal/home"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration commands",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration",
	Long: `Write the default configuration to the home directory, or to the
path given with --config, and create the schemas directory.

An existing file is left untouched unless --force is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}

		path := cfgFile
		if path == "" {
			path = h.ConfigPath()
		}
		if _, err := os.Stat(path); err == nil && !configForce {
			return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
		}
		if err := config.WriteDefault(path); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
		fmt.Printf("Put named schemas in %s\n", h.SchemasPath())
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print the configuration after defaults, the config file and
HASTD_* environment overrides are applied. API keys are shown as
written, so ${ENV_VAR} references are not expanded.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, mgr, err := loadConfig()
		if err != nil {
			return err
		}
		return api.Output(mgr.Get())
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing config file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
