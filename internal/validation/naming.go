package validation

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
)

// pipelineContentDirs hold files whose lowercase names are fixed by the
// pipeline layout: episode-NN.md, draft.md, outline.md and rendered output.
var pipelineContentDirs = []string{EpisodesDir, "prose", "structure", "output"}

// NamingValidator requires governed markdown artifacts to have an UPPERCASE
// base name and a lowercase .md extension. Pipeline content directories are
// exempt.
type NamingValidator struct {
	// PipelineDir locates the pipeline root relative to the governed root.
	PipelineDir string
}

// Name implements Validator.
func (v *NamingValidator) Name() string {
	return "naming"
}

// Validate implements Validator.
func (v *NamingValidator) Validate(root string) ([]Violation, error) {
	sink := NewSink(root)

	base := root
	if v.PipelineDir != "" {
		base = filepath.Join(root, filepath.FromSlash(v.PipelineDir))
	}
	exempt := make(map[string]bool, len(pipelineContentDirs))
	for _, dir := range pipelineContentDirs {
		exempt[filepath.Join(base, dir)] = true
	}

	err := walkMarkdown(root, func(dir string) bool { return exempt[dir] }, func(path string) error {
		name := filepath.Base(path)
		ext := filepath.Ext(name)
		stem := strings.TrimSuffix(name, ext)
		if !isUpperName(stem) {
			sink.Add(path, 0, RequirementNaming, fmt.Sprintf("Base name '%s' should be UPPERCASE.", stem))
		}
		if ext != strings.ToLower(ext) {
			sink.Add(path, 0, RequirementNaming, fmt.Sprintf("Extension '%s' should be lowercase.", ext))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sink.Violations(), nil
}

// isUpperName reports whether s has at least one letter and no lowercase ones.
func isUpperName(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}
