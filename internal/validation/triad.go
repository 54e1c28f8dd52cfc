package validation

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// TriadValidator requires CANON.md, DICTIONARY.md and README.md in the root
// and in every directory that holds markdown.
type TriadValidator struct{}

// Name implements Validator.
func (v *TriadValidator) Name() string {
	return "triad"
}

// Validate implements Validator.
func (v *TriadValidator) Validate(root string) ([]Violation, error) {
	sink := NewSink(root)

	dirs, err := governedDirs(root)
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		var missing []string
		for _, name := range TriadFiles {
			ok, err := exists(filepath.Join(dir, name))
			if err != nil {
				return nil, err
			}
			if !ok {
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			sink.Add(dir, 0, RequirementTriad, fmt.Sprintf(
				"Directory is missing triad files: %s.", strings.Join(missing, ", ")))
		}
	}

	return sink.Violations(), nil
}

// governedDirs returns the root followed by every non-hidden directory that
// directly contains a markdown file, in lexicographic walk order.
func governedDirs(root string) ([]string, error) {
	dirs := []string{root}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() || path == root {
			return nil
		}
		if isHidden(d.Name()) {
			return filepath.SkipDir
		}
		entries, err := os.ReadDir(path)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if !e.IsDir() && strings.HasSuffix(e.Name(), ".md") {
				dirs = append(dirs, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	return dirs, nil
}

// walkMarkdown calls fn for every markdown file under root in lexical order,
// matching the .md extension case-insensitively. Hidden directories and any
// directory for which skip returns true are not entered.
func walkMarkdown(root string, skip func(dir string) bool, fn func(path string) error) error {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && (isHidden(d.Name()) || (skip != nil && skip(path))) {
				return filepath.SkipDir
			}
			return nil
		}
		if isHidden(d.Name()) || !strings.EqualFold(filepath.Ext(d.Name()), ".md") {
			return nil
		}
		return fn(path)
	})
	if err != nil {
		return fmt.Errorf("walking %s: %w", root, err)
	}
	return nil
}

// findMarkdown returns every file named name under root, skipping hidden
// directories, sorted by slash path.
func findMarkdown(root, name string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(root), "**/"+name)
	if err != nil {
		return nil, fmt.Errorf("finding %s: %w", name, err)
	}
	sort.Strings(matches)

	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		if hasHiddenSegment(m) {
			continue
		}
		paths = append(paths, filepath.Join(root, filepath.FromSlash(m)))
	}
	return paths, nil
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

func hasHiddenSegment(slashPath string) bool {
	for _, seg := range strings.Split(slashPath, "/") {
		if isHidden(seg) {
			return true
		}
	}
	return false
}
