package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cerebriumai/cerebrium-launcher/internal/service/installer"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report how the installed Cerebrium CLI relates to the expected release",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		svc, err := installer.NewFromConfigPath(configPath)
		if err != nil {
			return err
		}

		status, err := svc.Check(cmd.Context())
		if err != nil {
			return err
		}

		installed := status.InstalledVersion
		if installed == "" {
			installed = "unknown"
		}

		fmt.Printf("state: %s\n", status.State)
		fmt.Printf("installed version: %s\n", installed)
		fmt.Printf("expected version: %s\n", status.ExpectedVersion)
		fmt.Printf("binary path: %s\n", status.BinaryPath)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
