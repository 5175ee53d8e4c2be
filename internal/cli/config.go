package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ppiankov/casefile/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage casefile configuration",
	Long: `Manage casefile configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (CASEFILE_*)
3. Config file (~/.casefile/config.yaml)
4. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long:  `Display the configuration after defaults, the config file, environment variables and flags are applied.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if used := viper.ConfigFileUsed(); used != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Configuration file: %s\n\n", used)
		} else {
			fmt.Fprintf(cmd.ErrOrStderr(), "No configuration file found (using defaults)\n\n")
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}

		out := newPrinter(cmd.OutOrStdout(), cfg)
		out.title("Current configuration")
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		out.subtle("Environment variables use the CASEFILE_ prefix, e.g. CASEFILE_STORE_DIR")
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long:  `Create ~/.casefile/config.yaml containing every option at its default value.`,
	RunE: func(cmd *cobra.Command, _ []string) (err error) {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("error finding home directory: %w", err)
		}

		configDir := filepath.Join(home, ".casefile")
		configPath := filepath.Join(configDir, "config.yaml")

		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("config file already exists: %s\nUse 'casefile config show' to view it, or delete it first to recreate", configPath)
		}
		if err := os.MkdirAll(configDir, 0o750); err != nil {
			return fmt.Errorf("error creating config directory: %w", err)
		}

		f, err := os.OpenFile(configPath, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o600)
		if err != nil {
			return fmt.Errorf("error creating config file: %w", err)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("close config file: %w", closeErr)
			}
		}()

		printf := func(format string, a ...any) {
			if err != nil {
				return
			}
			_, err = fmt.Fprintf(f, format, a...)
		}

		printf("# casefile configuration\n")
		printf("#\n")
		printf("# Configuration hierarchy (highest to lowest priority):\n")
		printf("#   1. CLI flags\n")
		printf("#   2. Environment variables (CASEFILE_*)\n")
		printf("#   3. This config file\n")
		printf("#   4. Built-in defaults\n")
		printf("#\n")
		printf("# audit.driver: memory keeps the log inside each matter snapshot,\n")
		printf("# sqlite also appends it to audit.path.\n\n")
		if err != nil {
			return err
		}

		data, err := yaml.Marshal(model.DefaultConfig())
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}
		if _, err := f.Write(data); err != nil {
			return fmt.Errorf("error writing config: %w", err)
		}

		out := newPrinter(cmd.OutOrStdout(), model.DefaultConfig())
		out.success("Created default configuration: %s", configPath)
		out.blank()
		out.subtle("To view it:      casefile config show")
		out.subtle("To customize it: $EDITOR %s", configPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
