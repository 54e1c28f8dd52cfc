package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/canonic-tools/canonic/internal/cli/shared"
	"github.com/canonic-tools/canonic/internal/report"
	"github.com/canonic-tools/canonic/internal/status"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:     "status",
	Aliases: []string{"st"},
	Short:   "Show content pipeline progress (st)",
	Long: `Display the state of the episodes -> assets -> prose -> output pipeline:
- Files per stage and the current stage
- Active REINDEX gate, if any
- Stage problems and suggested next steps

Exits 1 when a stage problem is found.`,
	Args:    cobra.NoArgs,
	GroupID: shared.GroupInspection,
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
		return runStatus(pipelineBase(s), format, cmd.OutOrStdout())
	},
}

func init() {
	statusCmd.Flags().StringP("format", "f", "text", "Output format: text, json, yaml")
	statusCmd.Flags().String("pipeline-dir", "", "Pipeline directory relative to the root")
}

// statusView is the machine-readable status document.
type statusView struct {
	status.Status `yaml:",inline"`
	NextSteps     []string `json:"next_steps" yaml:"next_steps"`
}

func runStatus(root string, format report.Format, out io.Writer) error {
	st, err := status.Collect(root)
	if err != nil {
		return fmt.Errorf("collecting status: %w", err)
	}

	switch format {
	case report.FormatJSON, report.FormatYAML:
		if err := report.WriteValue(out, statusView{Status: *st, NextSteps: status.NextSteps(st)}, format); err != nil {
			return err
		}
	default:
		fmt.Fprint(out, formatStatus(st))
	}

	if st.HasProblems() {
		return shared.NewExitError(ExitViolations)
	}
	return nil
}

// formatStatus renders the status for a terminal.
func formatStatus(st *status.Status) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Current stage: %s\n\n", st.Stage))

	episodeNote := ""
	if st.EpisodesImmutable {
		episodeNote = "immutable"
	}
	ledgerNote := "ledger missing"
	if st.LedgerExists {
		ledgerNote = "ledger present"
	}
	outputNote := ""
	if st.Output > 0 && !st.MetadataExists {
		outputNote = "METADATA.md missing"
	}
	rows := [][]string{
		{status.StageEpisode, strconv.Itoa(st.Episodes), episodeNote},
		{status.StageAsset, strconv.Itoa(st.Assets), ledgerNote},
		{status.StageProse, strconv.Itoa(st.Prose), ""},
		{status.StageOutput, strconv.Itoa(st.Output), outputNote},
	}
	sb.WriteString(report.Table([]string{"Stage", "Files", "Notes"}, rows,
		[]report.Alignment{report.AlignLeft, report.AlignRight, report.AlignLeft}))
	sb.WriteString("\n\n")

	if st.Reindex != "" {
		sb.WriteString(fmt.Sprintf("REINDEX: active in %s/\n", st.Reindex))
	} else {
		sb.WriteString("REINDEX: none\n")
	}

	if st.HasProblems() {
		sb.WriteString("\nProblems:\n")
		for _, p := range st.Problems {
			sb.WriteString("  - " + p + "\n")
		}
	}

	sb.WriteString("\nNext steps:\n")
	for _, step := range status.NextSteps(st) {
		sb.WriteString("  - " + step + "\n")
	}
	return sb.String()
}

// parseInspectionFormat accepts the formats status and trace support.
func parseInspectionFormat(s string) (report.Format, error) {
	format, err := report.ParseFormat(s)
	if err != nil || format == report.FormatSummary {
		return "", shared.InvalidArguments(fmt.Errorf("invalid format %q (valid: text, json, yaml)", s))
	}
	return format, nil
}
