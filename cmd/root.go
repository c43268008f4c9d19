package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "riceguard",
	Short: "RiceGuard crop-disease scanning backend",
	Long: `RiceGuard is the unified REST backend for the crop-disease scanning
application: user accounts, leaf-image scan submission, classification
results, and remediation guidance.`,
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
