package cli

import (
	"fmt"
	"io"

	"github.com/canonic-tools/canonic/internal/cli/shared"
	"github.com/canonic-tools/canonic/internal/git"
	"github.com/canonic-tools/canonic/internal/health"
	"github.com/canonic-tools/canonic/internal/report"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:     "doctor",
	Aliases: []string{"doc"},
	Short:   "Check that a tree is ready for validation (doc)",
	Long: `Run health checks against the governed root.

This command checks for:
  - A readable root directory
  - A root CANON.md with a '# CANON' header
  - assets/LEDGER.md without ledger violations
  - At least one episodes/episode-NN.md
  - A git repository (optional, used by validate --history)

Each check displays ✓ if passed, ✗ if failed, or ! for an optional check
that failed. Exits 1 when a required check fails.`,
	Args:    cobra.NoArgs,
	GroupID: shared.GroupInformation,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		formatFlag, _ := cmd.Flags().GetString("format")
		format, err := parseInspectionFormat(formatFlag)
		if err != nil {
			return err
		}
		return runDoctor(s.root, nil, format, cmd.OutOrStdout())
	},
}

func init() {
	doctorCmd.Flags().StringP("format", "f", "text", "Output format: text, json, yaml")
}

func runDoctor(root string, opener git.Opener, format report.Format, out io.Writer) error {
	hr := health.RunHealthChecks(root, opener)

	if format == report.FormatText {
		fmt.Fprint(out, health.FormatReport(hr))
	} else if err := report.WriteValue(out, hr, format); err != nil {
		return err
	}

	if !hr.Passed {
		return shared.NewExitError(shared.ExitViolations)
	}
	return nil
}
