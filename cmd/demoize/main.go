package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/battlewithbytes/demoize/internal/config"
	"github.com/battlewithbytes/demoize/internal/logging"
	"github.com/battlewithbytes/demoize/internal/ui"
	"github.com/battlewithbytes/demoize/internal/version"
)

var (
	flagConfig   string
	flagDemosDir string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:           "demoize",
	Short:         "demoize packages demo directories into a local demo catalog",
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Long = ui.Green.Render("demoize") + " " + ui.Cyan.Render(version.Version) + "\n" +
		ui.Dim.Render("Stages a demo source directory, generates an icon when it has none, and records it in the local demo catalog.")

	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default "+config.DefaultConfigPath+", or $"+config.EnvConfig+")")
	rootCmd.PersistentFlags().StringVar(&flagDemosDir, "demos-dir", "", "demos directory (overrides config and $"+config.EnvDemosDir+")")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "log level: debug, info, warn, error")
}

// configPath resolves the config file from the flag, the environment, or the default.
func configPath() string {
	if flagConfig != "" {
		return flagConfig
	}
	if p := os.Getenv(config.EnvConfig); p != "" {
		return p
	}
	return config.DefaultConfigPath
}

// loadConfig loads the config file and applies environment and flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath())
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	cfg.ApplyEnv()
	if flagDemosDir != "" {
		cfg.DemosDir = flagDemosDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newLogger() *log.Logger {
	return logging.New(os.Stderr, flagLogLevel)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, ui.Red.Render("Error: ")+err.Error())
		stop()
		os.Exit(1)
	}
}
