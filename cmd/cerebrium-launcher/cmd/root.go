package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cerebriumai/cerebrium-launcher/internal/logger"
	"github.com/cerebriumai/cerebrium-launcher/internal/version"
)

var (
	// configPath is the optional path to the settings YAML file.
	configPath string
	// logLevel controls log verbosity.
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "cerebrium-launcher",
	Short: "Maintenance tool for the Cerebrium CLI install",
	Long: "cerebrium-launcher manages the local Cerebrium CLI install: " +
		"it downloads, verifies and installs the release this launcher was " +
		"built for, and reports the current install state.",
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		level, ok := logger.ParseLogLevel(logLevel)
		if !ok {
			return fmt.Errorf("unknown log level %q", logLevel)
		}

		logger.SetLevel(level)

		return nil
	},
}

// Execute runs the maintenance CLI.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"path to the settings file (default is ~/.cerebrium/cerebrium-launcher.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"log level (debug, info, warn, error, fatal)")

	version.AttachCobraVersionCommand(rootCmd)
}
