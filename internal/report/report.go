// Package report renders violation lists for people and machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/canonic-tools/canonic/internal/validation"
	"gopkg.in/yaml.v3"
)

// Format selects a report layout.
type Format string

const (
	FormatText    Format = "text"
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatSummary Format = "summary"
)

// Report status values.
const (
	StatusCompliant = "compliant"
	StatusInvalid   = "invalid"
)

// ValidFormats returns the accepted format names.
func ValidFormats() []string {
	return []string{string(FormatText), string(FormatJSON), string(FormatYAML), string(FormatSummary)}
}

// ParseFormat converts a format name into a Format.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatText, FormatJSON, FormatYAML, FormatSummary:
		return f, nil
	default:
		return "", fmt.Errorf("invalid report format %q (valid: %s)", s, strings.Join(ValidFormats(), ", "))
	}
}

// Report is the machine-readable envelope around a violation list.
type Report struct {
	Status         string                 `json:"status" yaml:"status"`
	ViolationCount int                    `json:"violation_count" yaml:"violation_count"`
	Violations     []validation.Violation `json:"violations" yaml:"violations"`
}

// New wraps violations in a Report.
func New(violations []validation.Violation) *Report {
	if violations == nil {
		violations = []validation.Violation{}
	}
	status := StatusCompliant
	if len(violations) > 0 {
		status = StatusInvalid
	}
	return &Report{Status: status, ViolationCount: len(violations), Violations: violations}
}

// Options controls rendering.
type Options struct {
	Format Format
	Color  bool // text format only
}

// Render writes the violations to w in the requested format.
func Render(w io.Writer, violations []validation.Violation, opts Options) error {
	rep := New(violations)
	switch opts.Format {
	case FormatJSON, FormatYAML:
		return WriteValue(w, rep, opts.Format)
	case FormatSummary:
		return renderSummary(w, rep)
	case FormatText, "":
		return renderText(w, rep, newPalette(opts.Color))
	default:
		return fmt.Errorf("invalid report format %q", opts.Format)
	}
}

// WriteValue encodes v as indented JSON or YAML.
func WriteValue(w io.Writer, v any, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("format %q cannot encode values", format)
	}
}

func renderText(w io.Writer, rep *Report, p palette) error {
	var sb strings.Builder
	sb.WriteString(p.bold("COMPLIANCE REPORT") + "\n")
	if rep.ViolationCount > 0 {
		sb.WriteString("Status: " + p.red(rep.Status) + "\n")
	} else {
		sb.WriteString("Status: " + p.green(rep.Status) + "\n")
	}
	sb.WriteString(fmt.Sprintf("Violations: %d\n", rep.ViolationCount))

	if rep.ViolationCount > 0 {
		sb.WriteString("\n")
		for i, v := range rep.Violations {
			sb.WriteString(fmt.Sprintf("%s %s\n", p.bold(fmt.Sprintf("%d. Artifact:", i+1)), p.yellow(v.Artifact)))
			if v.Line > 0 {
				sb.WriteString(fmt.Sprintf("   Line: %d\n", v.Line))
			}
			sb.WriteString(fmt.Sprintf("   Requirement: %s\n", v.Requirement))
			sb.WriteString(fmt.Sprintf("   Details: %s\n\n", v.Details))
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// requirementCount is one row of the summary table.
type requirementCount struct {
	requirement string
	count       int
}

// countByRequirement orders requirements by descending count, then name.
func countByRequirement(violations []validation.Violation) []requirementCount {
	counts := make(map[string]int)
	for _, v := range violations {
		counts[v.Requirement]++
	}
	rows := make([]requirementCount, 0, len(counts))
	for req, n := range counts {
		rows = append(rows, requirementCount{requirement: req, count: n})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].count != rows[j].count {
			return rows[i].count > rows[j].count
		}
		return rows[i].requirement < rows[j].requirement
	})
	return rows
}

func renderSummary(w io.Writer, rep *Report) error {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Status: %s\n", rep.Status))
	sb.WriteString(fmt.Sprintf("Total violations: %d\n", rep.ViolationCount))

	if rep.ViolationCount > 0 {
		counts := countByRequirement(rep.Violations)
		rows := make([][]string, 0, len(counts))
		for _, c := range counts {
			rows = append(rows, []string{c.requirement, fmt.Sprintf("%d", c.count)})
		}
		sb.WriteString("\nViolations by requirement:\n")
		sb.WriteString(Table([]string{"Requirement", "Count"}, rows, []Alignment{AlignLeft, AlignRight}))
		sb.WriteString("\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
