package validation

import "path/filepath"

// TerminologyValidator requires every CANON.md to have a DICTIONARY.md beside
// it, since the terms a CANON uses are defined there.
type TerminologyValidator struct{}

// Name implements Validator.
func (v *TerminologyValidator) Name() string {
	return "terminology"
}

// Validate implements Validator.
func (v *TerminologyValidator) Validate(root string) ([]Violation, error) {
	sink := NewSink(root)

	canons, err := findMarkdown(root, CanonFile)
	if err != nil {
		return nil, err
	}
	for _, canon := range canons {
		ok, err := exists(filepath.Join(filepath.Dir(canon), DictionaryFile))
		if err != nil {
			return nil, err
		}
		if !ok {
			sink.Add(canon, 0, RequirementTerminology, "DICTIONARY.md missing; cannot validate terminology.")
		}
	}

	return sink.Violations(), nil
}
