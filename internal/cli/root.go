package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/casefile/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Version is set at build time
var Version = "dev"

var (
	cfgFile string
	verbose bool
	actor   string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "casefile",
	Short: "casefile - legal matter triage and document preparation (not legal advice)",
	Long: `casefile helps a self-represented person organise a legal problem:

- Classify the matter and route it to the forum that hears it
- Index evidence, build a timeline and flag gaps
- Draft plain-language documents for human review
- Keep an audit trail and honour retention and legal hold

casefile prepares information and drafts. It does not give legal advice.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

// ExecuteContext runs the root command with ctx available to every subcommand
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "casefile %s\n", Version)
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.casefile/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&actor, "actor", "", "name recorded in the audit log (default: user)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")
	rootCmd.PersistentFlags().String("store-dir", "", "directory for matter snapshots")
	rootCmd.PersistentFlags().String("metrics-file", "", "write Prometheus metrics to this textfile after each command")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("store.dir", rootCmd.PersistentFlags().Lookup("store-dir"))
	_ = viper.BindPFlag("output.metrics_file", rootCmd.PersistentFlags().Lookup("metrics-file"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables, then sets up logging
func initConfig(_ *cobra.Command, _ []string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("find home directory: %w", err)
		}
		viper.AddConfigPath(filepath.Join(home, ".casefile"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// CASEFILE_LOGGING_LEVEL overrides logging.level, and so on
	viper.SetEnvPrefix("CASEFILE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("read config: %w", err)
		}
	}

	return setupLogging(viper.GetString("logging.level"), viper.GetString("logging.format"))
}

func setupLogging(level, format string) error {
	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info", "":
		slogLevel = slog.LevelInfo
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		return fmt.Errorf("invalid log level: %s", level)
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: slogLevel}
	switch format {
	case "console", "":
		handler = slog.NewTextHandler(os.Stderr, opts)
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	default:
		return fmt.Errorf("invalid log format: %s", format)
	}

	slog.SetDefault(slog.New(handler))
	return nil
}

// loadConfig layers flags and environment over the config file over defaults
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()

	if path := viper.ConfigFileUsed(); path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	overrideString(&cfg.Logging.Level, "logging.level")
	overrideString(&cfg.Logging.Format, "logging.format")
	overrideString(&cfg.Store.Dir, "store.dir")
	overrideString(&cfg.Output.MetricsFile, "output.metrics_file")
	overrideString(&cfg.Audit.Driver, "audit.driver")
	overrideString(&cfg.Audit.Path, "audit.path")
	overrideString(&cfg.HTTP.UserAgent, "http.user_agent")
	overrideString(&cfg.HTTP.HTTPProxy, "http.http_proxy")
	overrideString(&cfg.HTTP.HTTPSProxy, "http.https_proxy")
	overrideString(&cfg.HTTP.NoProxy, "http.no_proxy")
	overrideString(&cfg.Packaging.AuthorityFile, "packaging.authority_file")
	overrideString(&cfg.Packaging.FormMappings, "packaging.form_mappings")
	if viper.IsSet("retention.days") {
		cfg.Retention.Days = viper.GetInt("retention.days")
	}
	if viper.IsSet("concurrency.workers") {
		cfg.Concurrency.Workers = viper.GetInt("concurrency.workers")
	}
	if viper.GetBool("output.verbose") {
		cfg.Output.Verbose = true
	}
	if viper.IsSet("output.color") {
		cfg.Output.Color = viper.GetBool("output.color")
	}

	if cfg.Audit.Driver == "sqlite" && cfg.Audit.Path == "" {
		cfg.Audit.Path = filepath.Join(filepath.Dir(cfg.Store.Dir), "audit.db")
	}
	return cfg, nil
}

// overrideString applies a viper value when one was set and is non-empty
func overrideString(dst *string, key string) {
	if viper.IsSet(key) {
		if v := viper.GetString(key); v != "" {
			*dst = v
		}
	}
}
