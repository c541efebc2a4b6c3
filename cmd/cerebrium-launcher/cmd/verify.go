package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cerebriumai/cerebrium-launcher/internal/service/installer"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Download the expected release and verify its checksum without installing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		svc, err := installer.NewFromConfigPath(configPath)
		if err != nil {
			return err
		}

		return svc.VerifyRelease(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
