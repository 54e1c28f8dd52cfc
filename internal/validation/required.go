package validation

import (
	"fmt"
	"path/filepath"
	"strings"
)

// requiredArtifactsHeading opens the list of root-level artifacts in CANON.md.
const requiredArtifactsHeading = "## Required Artifacts (root level)"

// RequiredArtifactsValidator checks that every artifact listed under the
// required-artifacts section of the root CANON.md exists.
type RequiredArtifactsValidator struct{}

// Name implements Validator.
func (v *RequiredArtifactsValidator) Name() string {
	return "required-artifacts"
}

// Validate implements Validator.
func (v *RequiredArtifactsValidator) Validate(root string) ([]Violation, error) {
	sink := NewSink(root)

	required, err := ParseRequiredArtifacts(filepath.Join(root, CanonFile))
	if err != nil {
		return nil, err
	}

	for _, entry := range required {
		path := filepath.Join(root, filepath.FromSlash(entry.Name))
		ok, err := exists(path)
		if err != nil {
			return nil, err
		}
		if !ok {
			sink.Add(path, entry.LineNumber, RequirementRequiredArtifacts,
				fmt.Sprintf("Required artifact '%s' is missing.", entry.Name))
		}
	}

	return sink.Violations(), nil
}

// ParseRequiredArtifacts returns the "- name" bullets of the required
// artifacts section. A missing CANON.md lists nothing.
func ParseRequiredArtifacts(canonPath string) ([]SectionEntry, error) {
	var required []SectionEntry
	open, done := false, false

	err := ScanLines(canonPath, func(lineNum int, line string) {
		if done {
			return
		}
		stripped := strings.TrimSpace(line)
		if stripped == requiredArtifactsHeading {
			open = true
			return
		}
		if !open {
			return
		}
		if strings.HasPrefix(stripped, "## ") {
			done = true
			return
		}
		if rest, ok := strings.CutPrefix(line, "- "); ok {
			if fields := strings.Fields(rest); len(fields) > 0 {
				required = append(required, SectionEntry{Name: fields[0], LineNumber: lineNum})
			}
		}
	})
	if err != nil {
		if isNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("parsing required artifacts: %w", err)
	}
	return required, nil
}
