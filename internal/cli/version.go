package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/canonic-tools/canonic/internal/build"
	"github.com/canonic-tools/canonic/internal/cli/shared"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:     "version",
	Short:   "Display version information",
	Long:    "Display version, commit, build date, and Go version information for canonic",
	Args:    cobra.NoArgs,
	GroupID: shared.GroupInformation,
	Run: func(cmd *cobra.Command, args []string) {
		plain, _ := cmd.Flags().GetBool("plain")
		printVersion(cmd.OutOrStdout(), plain)
	},
}

func init() {
	versionCmd.Flags().Bool("plain", false, "Plain output without formatting")
}

func printVersion(w io.Writer, plain bool) {
	if plain {
		fmt.Fprintf(w, "canonic %s\n", build.Version)
		fmt.Fprintf(w, "commit: %s\n", build.Commit)
		fmt.Fprintf(w, "built: %s\n", build.BuildDate)
		fmt.Fprintf(w, "go: %s\n", runtime.Version())
		fmt.Fprintf(w, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		return
	}

	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	version := build.Version
	if build.IsDevBuild() {
		version += dim(" (development build)")
	}
	fmt.Fprintf(w, "%s %s\n", cyan("canonic"), version)
	fmt.Fprintf(w, "  %s %s\n", dim("commit:"), build.Commit)
	fmt.Fprintf(w, "  %s %s\n", dim("built: "), build.BuildDate)
	fmt.Fprintf(w, "  %s %s (%s/%s)\n", dim("go:    "), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
