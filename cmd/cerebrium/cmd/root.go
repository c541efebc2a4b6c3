package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cerebriumai/cerebrium-launcher/internal/logger"
	"github.com/cerebriumai/cerebrium-launcher/internal/service/launcher"
)

// exitCode is what the process terminates with, set by the root command.
var exitCode int

// rootCmd is a transparent shim: flag parsing is disabled and no subcommands
// are registered, so every argument (including "version" and "--help") is
// forwarded to the managed Cerebrium CLI untouched.
var rootCmd = &cobra.Command{
	Use:                "cerebrium",
	Short:              "Cerebrium CLI",
	DisableFlagParsing: true,
	Args:               cobra.ArbitraryArgs,
	SilenceUsage:       true,
	SilenceErrors:      true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(),
			os.Interrupt, syscall.SIGTERM)
		defer stop()

		code, err := launcher.Run(ctx, &launcher.Options{Args: args})
		exitCode = code

		return err
	},
}

// Execute runs the shim and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		logger.Errorf(context.Background(), "cerebrium: %v", err)

		if exitCode == 0 {
			exitCode = 1
		}
	}

	return exitCode
}
