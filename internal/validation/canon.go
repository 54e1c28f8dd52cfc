package validation

import (
	"fmt"
	"strings"
)

const (
	canonHeader         = "# CANON"
	inheritsDeclaration = "**Inherits from:**"
	violationStatement  = "**Violation:**"
	constraintMarker    = "###"
)

// CanonStructureValidator checks the shape of every CANON.md: a "# CANON"
// header, an inheritance declaration, and a violation statement in each
// "###" constraint.
type CanonStructureValidator struct{}

// Name implements Validator.
func (v *CanonStructureValidator) Name() string {
	return "canon-structure"
}

type canonConstraint struct {
	name         string
	line         int
	hasViolation bool
}

type canonDocument struct {
	headerLine  int
	inherits    bool
	constraints []canonConstraint
}

// Validate implements Validator.
func (v *CanonStructureValidator) Validate(root string) ([]Violation, error) {
	sink := NewSink(root)

	paths, err := findMarkdown(root, CanonFile)
	if err != nil {
		return nil, err
	}

	for _, path := range paths {
		doc, err := parseCanon(path)
		if err != nil {
			return nil, err
		}
		if doc.headerLine == 0 {
			sink.Add(path, 0, RequirementCanonStructure, "Missing '# CANON' header.")
		}
		if !doc.inherits {
			sink.Add(path, doc.headerLine, RequirementCanonStructure,
				"Missing '**Inherits from:**' declaration.")
		}
		for _, c := range doc.constraints {
			if !c.hasViolation {
				sink.Add(path, c.line, RequirementCanonStructure, fmt.Sprintf(
					"Constraint '%s' missing '**Violation:**' statement.", c.name))
			}
		}
	}

	return sink.Violations(), nil
}

func parseCanon(path string) (*canonDocument, error) {
	doc := &canonDocument{}
	var current *canonConstraint

	err := ScanLines(path, func(lineNum int, line string) {
		if doc.headerLine == 0 && strings.HasPrefix(line, canonHeader) {
			doc.headerLine = lineNum
		}
		if strings.Contains(line, inheritsDeclaration) {
			doc.inherits = true
		}

		if idx := strings.Index(line, constraintMarker); idx >= 0 {
			// A "###" closes the open constraint; it opens a new one only
			// when followed by a title.
			if current != nil {
				doc.constraints = append(doc.constraints, *current)
				current = nil
			}
			name := strings.TrimSpace(strings.TrimLeft(line[idx:], "#"))
			if name != "" {
				current = &canonConstraint{name: name, line: lineNum}
			}
			return
		}
		if current != nil && strings.Contains(line, violationStatement) {
			current.hasViolation = true
		}
	})
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if current != nil {
		doc.constraints = append(doc.constraints, *current)
	}
	return doc, nil
}
