package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "none"
)

// errScenariosFailed signals a completed run with failures; the report already explains them.
var errScenariosFailed = errors.New("scenarios failed")

// v holds flag values merged with DRX_* environment variables and an optional config file.
var v = viper.New()

var rootCmd = &cobra.Command{
	Use:   "drxpro",
	Short: "End-to-end checks for the Digital Rx Pro doctor portal",
	Long: `drxpro drives a browser through the Digital Rx Pro doctor portal and reports
which of the catalogued scenarios pass.

Every flag can also be set through the environment with the DRX_ prefix,
for example DRX_BASE_URL or DRX_PARALLEL, or through a YAML file given with --config.`,
	Version:           fmt.Sprintf("%s (commit: %s)", version, commit),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "YAML file with flag values")
	flags.String("fixtures", "", "Fixture document (default test-data/TestData.json of this repository)")
	flags.String("base-url", "", "Base URL of the application, overrides the fixture")
	flags.String("log-level", "info", "Log level: debug, info, warn or error")
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	v.SetEnvPrefix("DRX")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}
	if err := v.BindPFlags(cmd.InheritedFlags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return nil
}

func newLogger() (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(v.GetString("log-level"))); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errScenariosFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
