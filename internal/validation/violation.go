package validation

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Requirement references cited by violations.
const (
	RequirementTriad             = "CANON.md: Triad requirement"
	RequirementRequiredArtifacts = "CANON.md: Required artifacts"
	RequirementAssetLedger       = "CANON.md: Asset ledger integrity"
	RequirementStructure         = "CANON.md: Structure order"
	RequirementDictionaryOrder   = "DICTIONARY.md: Alphabetical ordering"
	RequirementCanonStructure    = "CANON.md: Constraint structure"
	RequirementMachineSpec       = "CANON.md: FSM spec file must be named MACHINE.md"
	RequirementSelfHealing       = "CANON.md: Self-healing"
	RequirementNaming            = "CANON.md: Artifact naming"
	RequirementTerminology       = "CANON.md: Terminology discipline"
	RequirementReferences        = "CANON.md: Reference integrity"
)

// Violation is one failed invariant.
type Violation struct {
	Artifact    string `json:"artifact" yaml:"artifact"`             // root-relative path, "." for the root
	Line        int    `json:"line,omitempty" yaml:"line,omitempty"` // 1-based, 0 when not tied to a line
	Requirement string `json:"requirement" yaml:"requirement"`
	Details     string `json:"details" yaml:"details"`
}

// String implements fmt.Stringer.
func (v Violation) String() string {
	var sb strings.Builder
	sb.WriteString(v.Artifact)
	if v.Line > 0 {
		sb.WriteString(fmt.Sprintf(":%d", v.Line))
	}
	sb.WriteString(": ")
	sb.WriteString(v.Details)
	return sb.String()
}

// Sink accumulates violations for a single run, in the order they are added.
type Sink struct {
	root       string
	violations []Violation
}

// NewSink creates a sink whose artifact paths are reported relative to root.
func NewSink(root string) *Sink {
	return &Sink{root: root}
}

// Add records a violation against the artifact at path.
func (s *Sink) Add(path string, line int, requirement, details string) {
	s.violations = append(s.violations, Violation{
		Artifact:    s.Rel(path),
		Line:        line,
		Requirement: requirement,
		Details:     details,
	})
}

// Rel formats path relative to the sink root using forward slashes.
func (s *Sink) Rel(path string) string {
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// Len returns the number of violations collected so far.
func (s *Sink) Len() int {
	return len(s.violations)
}

// Violations returns the collected violations.
func (s *Sink) Violations() []Violation {
	return s.violations
}
