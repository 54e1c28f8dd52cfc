package validation

import (
	"path/filepath"

	"github.com/canonic-tools/canonic/internal/git"
)

// HistoryValidator turns git history signals into violations.
type HistoryValidator struct {
	Opener git.Opener // nil uses the on-disk repository
}

// Name implements Validator.
func (v *HistoryValidator) Name() string {
	return "history"
}

// Validate implements Validator.
func (v *HistoryValidator) Validate(root string) ([]Violation, error) {
	detector := git.NewDetector()
	if v.Opener != nil {
		detector.Opener = v.Opener
	}

	signals, err := detector.Detect(root)
	if err != nil {
		return nil, err
	}

	sink := NewSink(root)
	for _, s := range signals {
		sink.Add(filepath.Join(root, filepath.FromSlash(s.Artifact)), 0, RequirementSelfHealing, s.Message)
	}
	return sink.Violations(), nil
}
