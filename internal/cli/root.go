package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mvnlock",
		Short: "Generate reproducible lock files for Maven builds",
		Long: `Mvnlock reads the effective project of a built Maven project and
the local repository it populated, and writes a canonical JSON lock file
from which every dependency can be re-fetched by content hash.

The lock file records:
  - root coordinates and every module with its build path
  - every resolved artifact with the SHA-1 of its content
  - remote repository metadata documents
  - the id -> URL map of all declared repositories`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			} else {
				logrus.SetLevel(logrus.InfoLevel)
			}
		},
	}

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")

	// Add subcommands
	rootCmd.AddCommand(NewLockCmd())

	return rootCmd
}
