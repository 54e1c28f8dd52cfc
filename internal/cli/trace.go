package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/canonic-tools/canonic/internal/cli/shared"
	"github.com/canonic-tools/canonic/internal/report"
	"github.com/canonic-tools/canonic/internal/trace"
	"github.com/canonic-tools/canonic/internal/validation"
	"github.com/spf13/cobra"
)

var traceCmd = &cobra.Command{
	Use:     "trace <asset-id>",
	Aliases: []string{"tr"},
	Short:   "Trace an asset from its episodes to prose and output (tr)",
	Long: `Show where an asset comes from and where it is used: its ledger entry,
the source episode files it names, and every prose and output line that
mentions it.

With --orphaned, list the registered assets no prose document references.`,
	Example: `  # Trace one asset
  canonic trace asset-0004

  # Registered but unused assets
  canonic trace --orphaned`,
	GroupID: shared.GroupInspection,
	Args: func(cmd *cobra.Command, args []string) error {
		orphaned, _ := cmd.Flags().GetBool("orphaned")
		if orphaned {
			if len(args) > 0 {
				return shared.InvalidArguments(errors.New("--orphaned takes no asset id"))
			}
			return nil
		}
		if len(args) != 1 {
			return shared.InvalidArguments(errors.New("expected exactly one asset id"))
		}
		if !validation.AssetIDPattern.MatchString(args[0]) {
			return shared.InvalidArguments(fmt.Errorf("invalid asset id %q (expected: asset-NNNN with 4 digits)", args[0]))
		}
		return nil
	},
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

		tracer := trace.NewTracer(pipelineBase(s))
		if orphaned, _ := cmd.Flags().GetBool("orphaned"); orphaned {
			return runOrphaned(tracer, format, cmd.OutOrStdout())
		}
		return runTrace(tracer, args[0], format, cmd.OutOrStdout())
	},
}

func init() {
	traceCmd.Flags().Bool("orphaned", false, "List assets no prose references")
	traceCmd.Flags().StringP("format", "f", "text", "Output format: text, json, yaml")
	traceCmd.Flags().String("pipeline-dir", "", "Pipeline directory relative to the root")
}

// runTrace prints the trace of one asset. A missing ledger or unknown asset
// exits 1; an asset without existing source episodes also exits 1.
func runTrace(tracer *trace.Tracer, id string, format report.Format, out io.Writer) error {
	tr, err := tracer.Trace(id)
	if err != nil {
		if errors.Is(err, trace.ErrNoLedger) || errors.Is(err, trace.ErrAssetNotFound) {
			return shared.WrapExitError(ExitViolations, err)
		}
		return fmt.Errorf("tracing %s: %w", id, err)
	}

	switch format {
	case report.FormatJSON, report.FormatYAML:
		if err := report.WriteValue(out, tr, format); err != nil {
			return err
		}
	default:
		fmt.Fprint(out, formatTrace(tr))
	}

	if !tr.Sourced() {
		return shared.NewExitError(ExitViolations)
	}
	return nil
}

func runOrphaned(tracer *trace.Tracer, format report.Format, out io.Writer) error {
	orphans, err := tracer.Orphaned()
	if err != nil {
		if errors.Is(err, trace.ErrNoLedger) {
			return shared.WrapExitError(ExitViolations, err)
		}
		return fmt.Errorf("listing orphaned assets: %w", err)
	}

	switch format {
	case report.FormatJSON, report.FormatYAML:
		return report.WriteValue(out, map[string]interface{}{"orphaned": orphans}, format)
	default:
		fmt.Fprint(out, formatOrphaned(orphans))
		return nil
	}
}

func formatTrace(tr *trace.AssetTrace) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Asset: %s\n", tr.Asset.ID))
	if tr.Asset.Name != "" {
		sb.WriteString(fmt.Sprintf("Name: %s\n", tr.Asset.Name))
	}
	if tr.Asset.Type != "" {
		sb.WriteString(fmt.Sprintf("Type: %s\n", tr.Asset.Type))
	}
	sb.WriteString(fmt.Sprintf("Ledger line: %d\n", tr.Asset.LineNumber))

	sb.WriteString("\nSource episodes:\n")
	if len(tr.Episodes) == 0 {
		sb.WriteString("  (none listed)\n")
	}
	for _, ep := range tr.Episodes {
		if ep.Exists {
			sb.WriteString(fmt.Sprintf("  [✓] %s  %s\n", ep.ID, ep.File))
		} else {
			sb.WriteString(fmt.Sprintf("  [✗] %s  (missing)\n", ep.ID))
		}
	}

	writeOccurrences(&sb, "Prose", tr.Prose)
	writeOccurrences(&sb, "Output", tr.Output)

	if tr.Sourced() {
		sb.WriteString("\nStatus: sourced\n")
	} else {
		sb.WriteString("\nStatus: unsourced\n")
	}
	return sb.String()
}

func writeOccurrences(sb *strings.Builder, label string, occs []trace.Occurrence) {
	sb.WriteString(fmt.Sprintf("\n%s references: %d\n", label, len(occs)))
	for _, o := range occs {
		sb.WriteString(fmt.Sprintf("  %s:%d  %s\n", o.File, o.Line, o.Text))
	}
}

func formatOrphaned(orphans []validation.AssetRecord) string {
	if len(orphans) == 0 {
		return "No orphaned assets.\n"
	}
	rows := make([][]string, 0, len(orphans))
	for _, rec := range orphans {
		rows = append(rows, []string{rec.ID, rec.Name, rec.Type, strconv.Itoa(rec.LineNumber)})
	}
	return fmt.Sprintf("Orphaned assets: %d\n%s\n", len(orphans),
		report.Table([]string{"ID", "Name", "Type", "Ledger line"}, rows,
			[]report.Alignment{report.AlignLeft, report.AlignLeft, report.AlignLeft, report.AlignRight}))
}
