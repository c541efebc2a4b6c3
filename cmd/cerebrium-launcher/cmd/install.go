package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cerebriumai/cerebrium-launcher/internal/service/installer"
)

var forceInstall bool

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Download, verify and install the expected Cerebrium CLI release",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return installer.Run(cmd.Context(), &installer.Options{
			ConfigPath: configPath,
			Force:      forceInstall,
		})
	},
}

func init() {
	installCmd.Flags().BoolVar(&forceInstall, "force", false,
		"reinstall even when the installed version is current")

	rootCmd.AddCommand(installCmd)
}
