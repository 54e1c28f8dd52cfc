package validation

import "strings"

// SectionEntry is a named section, declared in an outline or observed in prose.
type SectionEntry struct {
	Name       string `json:"name" yaml:"name"`
	LineNumber int    `json:"line" yaml:"line"`
}

// ParseOutline returns the sections declared in an outline, in file order.
// A declaration is a line starting with "## Section"; its title is the text
// after the first colon, or the rest of the line when there is no colon.
func ParseOutline(path string) ([]SectionEntry, error) {
	var sections []SectionEntry
	err := ScanLines(path, func(lineNum int, line string) {
		stripped := strings.TrimSpace(line)
		if !strings.HasPrefix(stripped, outlineSectionMarker) {
			return
		}
		var title string
		if _, after, found := strings.Cut(stripped, ":"); found {
			title = after
		} else {
			title = stripped[len(outlineSectionMarker):]
		}
		sections = append(sections, SectionEntry{Name: strings.TrimSpace(title), LineNumber: lineNum})
	})
	if err != nil {
		return nil, err
	}
	return sections, nil
}

// ParseProseSections returns the second-level headings of a prose document.
func ParseProseSections(path string) ([]SectionEntry, error) {
	var sections []SectionEntry
	err := ScanLines(path, func(lineNum int, line string) {
		stripped := strings.TrimSpace(line)
		if !strings.HasPrefix(stripped, proseHeadingMarker) {
			return
		}
		sections = append(sections, SectionEntry{
			Name:       strings.TrimSpace(stripped[len(proseHeadingMarker):]),
			LineNumber: lineNum,
		})
	})
	if err != nil {
		return nil, err
	}
	return sections, nil
}
