// Package cli provides the Cobra-based commands of canonic: validate checks a
// governed tree for reference integrity and cross-artifact consistency,
// status and trace inspect the content pipeline, and version prints build
// information.
package cli

import (
	"fmt"
	"os"

	"github.com/canonic-tools/canonic/internal/cli/shared"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "canonic",
	Short: "canonic governance checks",
	Long: `canonic governance checks

Checks a governed documentation tree: every asset referenced in prose is
registered in the asset ledger, every asset traces back to an existing episode,
and prose follows the declared structure outline.`,
	Example: `  # Validate the current directory
  canonic validate

  # Validate another tree and print JSON
  canonic validate --root ./book --format json

  # Re-validate on every change
  canonic validate --watch

  # Show pipeline progress
  canonic status

  # Trace an asset to its episodes and uses
  canonic trace asset-0004`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Errors that carry a message are printed to
// stderr; use ExitCode to map the returned error to a process exit code.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !shared.IsSilent(err) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

func init() {
	rootCmd.AddGroup(&cobra.Group{ID: shared.GroupChecks, Title: "Checks:"})
	rootCmd.AddGroup(&cobra.Group{ID: shared.GroupInspection, Title: "Inspection:"})
	rootCmd.AddGroup(&cobra.Group{ID: shared.GroupInformation, Title: "Information:"})
	rootCmd.SetHelpCommandGroupID(shared.GroupInformation)
	rootCmd.SetCompletionCommandGroupID(shared.GroupInformation)

	// Global flags
	rootCmd.PersistentFlags().StringP("root", "r", ".", "Governed root directory")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to config file (default <root>/.canonic/config.json)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: console, json")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return shared.InvalidArguments(err)
	})

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(traceCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
