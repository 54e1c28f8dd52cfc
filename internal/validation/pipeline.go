package validation

import (
	"fmt"
	"path/filepath"
)

// PipelineValidator checks the episodes → assets → prose chain of a governed
// tree: ledger numbering, episode naming, prose references, asset source
// episodes and prose section order against the outline.
type PipelineValidator struct {
	// Dir is the pipeline root relative to the governed root; empty means the
	// governed root itself. A non-empty Dir that does not exist is skipped.
	Dir string
}

// Name implements Validator.
func (v *PipelineValidator) Name() string {
	return "pipeline"
}

// Validate implements Validator.
func (v *PipelineValidator) Validate(root string) ([]Violation, error) {
	base := root
	if v.Dir != "" {
		base = filepath.Join(root, filepath.FromSlash(v.Dir))
		ok, err := exists(base)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
	}

	ledgerPath := filepath.Join(base, filepath.FromSlash(LedgerPath))
	episodesDir := filepath.Join(base, EpisodesDir)
	prosePath := filepath.Join(base, filepath.FromSlash(ProsePath))
	outlinePath := filepath.Join(base, filepath.FromSlash(OutlinePath))

	sink := NewSink(root)

	ledger, err := ParseLedger(ledgerPath, sink)
	if err != nil {
		return nil, err
	}
	episodes, err := ListEpisodes(episodesDir, sink)
	if err != nil {
		return nil, err
	}
	if err := ScanReferences(prosePath, ledger, sink); err != nil {
		return nil, err
	}
	CheckSources(ledger, episodes, ledgerPath, sink)
	if err := CheckStructureOrder(outlinePath, prosePath, sink); err != nil {
		return nil, err
	}

	return sink.Violations(), nil
}

// CheckSources verifies that every asset names at least one source episode
// and that each named episode exists. Violations cite the asset's ledger line.
func CheckSources(ledger *Ledger, episodes *EpisodeIndex, ledgerPath string, sink *Sink) {
	for _, rec := range ledger.Records {
		if len(rec.SourceEpisodes) == 0 {
			sink.Add(ledgerPath, rec.LineNumber, RequirementAssetLedger,
				fmt.Sprintf("Asset %s lists no source episode in the asset ledger.", rec.ID))
			continue
		}
		for _, ep := range rec.SourceEpisodes {
			if !episodes.Has(ep) {
				sink.Add(ledgerPath, rec.LineNumber, RequirementAssetLedger, fmt.Sprintf(
					"Asset %s references episode %s but no such episode file exists.", rec.ID, ep))
			}
		}
	}
}

// CheckStructureOrder verifies that the outline's sections appear in the prose
// in the same relative order. A missing outline is reported once; a missing
// prose document skips the check, since its absence is reported elsewhere.
func CheckStructureOrder(outlinePath, prosePath string, sink *Sink) error {
	declared, err := ParseOutline(outlinePath)
	if err != nil {
		if isNotExist(err) {
			sink.Add(outlinePath, 0, RequirementStructure,
				"Structure outline is missing; cannot verify section order.")
			return nil
		}
		return fmt.Errorf("parsing outline: %w", err)
	}

	observed, err := ParseProseSections(prosePath)
	if err != nil {
		if isNotExist(err) {
			return nil
		}
		return fmt.Errorf("parsing prose sections: %w", err)
	}

	for _, issue := range compareSectionOrder(declared, observed) {
		switch issue.kind {
		case sectionMissing:
			sink.Add(outlinePath, issue.entry.LineNumber, RequirementStructure, fmt.Sprintf(
				"Structure section '%s' cannot be found in prose.", issue.entry.Name))
		case sectionOutOfOrder:
			sink.Add(prosePath, issue.entry.LineNumber, RequirementStructure, fmt.Sprintf(
				"Section '%s' appears out of order relative to the structure outline.", issue.entry.Name))
		}
	}
	return nil
}

type sectionIssueKind int

const (
	sectionMissing sectionIssueKind = iota + 1
	sectionOutOfOrder
)

// sectionIssue carries the outline entry for a missing section and the
// prose entry for an out-of-order one.
type sectionIssue struct {
	kind  sectionIssueKind
	entry SectionEntry
}

// compareSectionOrder matches declared sections against observed ones with a
// strictly increasing prose index. Names compare exactly.
func compareSectionOrder(declared, observed []SectionEntry) []sectionIssue {
	var issues []sectionIssue
	last := -1

	for _, want := range declared {
		first, later := -1, -1
		for idx, got := range observed {
			if got.Name != want.Name {
				continue
			}
			if first < 0 {
				first = idx
			}
			if idx > last {
				later = idx
				break
			}
		}

		switch {
		case later >= 0:
			last = later
		case first >= 0:
			issues = append(issues, sectionIssue{kind: sectionOutOfOrder, entry: observed[first]})
		default:
			issues = append(issues, sectionIssue{kind: sectionMissing, entry: want})
		}
	}

	return issues
}

// Validate runs the cross-artifact pipeline checks against root and returns
// the violations in check order. Only unexpected I/O failures return an error.
func Validate(root string) ([]Violation, error) {
	return NewRunner(&PipelineValidator{}).Run(root)
}

