package validation

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// markdownLinkPattern captures the text and target of an inline link.
var markdownLinkPattern = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)

// externalPrefixes mark link targets that are not files in the tree, along
// with any target carrying a URL scheme.
var externalPrefixes = []string{"mailto:", "#"}

type markdownLink struct {
	line   int
	text   string
	target string
}

// LinkValidator requires relative markdown links to resolve to an existing
// file or directory. A leading "/" resolves against the governed root.
type LinkValidator struct{}

// Name implements Validator.
func (v *LinkValidator) Name() string {
	return "links"
}

// Validate implements Validator.
func (v *LinkValidator) Validate(root string) ([]Violation, error) {
	sink := NewSink(root)

	err := walkMarkdown(root, nil, func(path string) error {
		var links []markdownLink
		err := ScanLines(path, func(lineNum int, line string) {
			for _, m := range markdownLinkPattern.FindAllStringSubmatch(line, -1) {
				links = append(links, markdownLink{line: lineNum, text: m[1], target: m[2]})
			}
		})
		if err != nil {
			return err
		}

		for _, l := range links {
			rel, ok := localTarget(l.target)
			if !ok {
				continue
			}
			resolved := filepath.Join(filepath.Dir(path), filepath.FromSlash(rel))
			if strings.HasPrefix(rel, "/") {
				resolved = filepath.Join(root, filepath.FromSlash(rel))
			}
			found, err := exists(resolved)
			if err != nil {
				return err
			}
			if !found {
				sink.Add(path, l.line, RequirementReferences, fmt.Sprintf(
					"Reference '%s' -> '%s' does not resolve.", l.text, l.target))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sink.Violations(), nil
}

// localTarget strips an optional title and fragment from a link target and
// reports whether what remains names a file in the tree.
func localTarget(target string) (string, bool) {
	fields := strings.Fields(target)
	if len(fields) == 0 {
		return "", false
	}
	target = fields[0]
	if strings.Contains(target, "://") {
		return "", false
	}
	for _, prefix := range externalPrefixes {
		if strings.HasPrefix(target, prefix) {
			return "", false
		}
	}
	if i := strings.IndexByte(target, '#'); i >= 0 {
		target = target[:i]
	}
	return target, target != ""
}
