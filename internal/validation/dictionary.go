package validation

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// DictionaryOrderValidator requires the "###" terms inside each "##" section
// of every DICTIONARY.md to be sorted case-insensitively.
type DictionaryOrderValidator struct{}

// Name implements Validator.
func (v *DictionaryOrderValidator) Name() string {
	return "dictionary-order"
}

type dictionarySection struct {
	name  string
	line  int
	terms []string
}

// Validate implements Validator.
func (v *DictionaryOrderValidator) Validate(root string) ([]Violation, error) {
	sink := NewSink(root)

	paths, err := findMarkdown(root, DictionaryFile)
	if err != nil {
		return nil, err
	}

	for _, path := range paths {
		sections, err := parseDictionary(path)
		if err != nil {
			return nil, err
		}
		for _, sec := range sections {
			expected := sortedTerms(sec.terms)
			if slices.Equal(sec.terms, expected) {
				continue
			}
			sink.Add(path, sec.line, RequirementDictionaryOrder, fmt.Sprintf(
				"Terms not alphabetically ordered in section '%s'. Expected order: %s.",
				sec.name, strings.Join(expected, ", ")))
		}
	}

	return sink.Violations(), nil
}

func parseDictionary(path string) ([]dictionarySection, error) {
	var sections []dictionarySection
	current := dictionarySection{}

	err := ScanLines(path, func(lineNum int, line string) {
		switch {
		case strings.HasPrefix(line, "## "):
			if len(current.terms) > 0 {
				sections = append(sections, current)
			}
			current = dictionarySection{name: strings.TrimSpace(line[3:]), line: lineNum}
		case strings.HasPrefix(line, "### "):
			current.terms = append(current.terms, strings.TrimSpace(line[4:]))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("parsing dictionary: %w", err)
	}
	if len(current.terms) > 0 {
		sections = append(sections, current)
	}
	return sections, nil
}

func sortedTerms(terms []string) []string {
	sorted := append([]string(nil), terms...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i]) < strings.ToLower(sorted[j])
	})
	return sorted
}
