// Package trace follows an asset from its ledger entry back to the episodes
// that introduced it and forward to the prose and output that use it.
package trace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/canonic-tools/canonic/internal/validation"
)

var (
	// ErrNoLedger is returned when the tree has no asset ledger.
	ErrNoLedger = errors.New("asset ledger not found")
	// ErrAssetNotFound is returned when an ID is not registered in the ledger.
	ErrAssetNotFound = errors.New("asset not found in ledger")
)

// excluded files are never scanned for references.
var excluded = map[string]bool{
	"REINDEX.md":  true,
	"METADATA.md": true,
}

// Occurrence is a line that mentions an asset.
type Occurrence struct {
	File string `json:"file" yaml:"file"` // root-relative
	Line int    `json:"line" yaml:"line"`
	Text string `json:"text" yaml:"text"`
}

// EpisodeLink is a source episode named by an asset.
type EpisodeLink struct {
	ID     string `json:"id" yaml:"id"`
	File   string `json:"file,omitempty" yaml:"file,omitempty"` // root-relative, empty when missing
	Exists bool   `json:"exists" yaml:"exists"`
}

// AssetTrace is the full trace of one asset.
type AssetTrace struct {
	Asset    validation.AssetRecord `json:"asset" yaml:"asset"`
	Episodes []EpisodeLink          `json:"episodes" yaml:"episodes"`
	Prose    []Occurrence           `json:"prose" yaml:"prose"`
	Output   []Occurrence           `json:"output" yaml:"output"`
}

// Sourced reports whether the asset names at least one source episode and
// every named episode exists.
func (t *AssetTrace) Sourced() bool {
	if len(t.Episodes) == 0 {
		return false
	}
	for _, ep := range t.Episodes {
		if !ep.Exists {
			return false
		}
	}
	return true
}

// Tracer traces assets in the pipeline rooted at Root.
type Tracer struct {
	Root string
}

// NewTracer creates a Tracer for root.
func NewTracer(root string) *Tracer {
	return &Tracer{Root: root}
}

// Assets returns the ledger's well-formed records in file order.
func (t *Tracer) Assets() ([]validation.AssetRecord, error) {
	ledger, err := t.ledger()
	if err != nil {
		return nil, err
	}
	return ledger.Records, nil
}

// Trace builds the trace for the asset with the given ID.
func (t *Tracer) Trace(id string) (*AssetTrace, error) {
	ledger, err := t.ledger()
	if err != nil {
		return nil, err
	}
	rec, ok := ledger.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAssetNotFound, id)
	}

	episodes, err := validation.ListEpisodes(filepath.Join(t.Root, validation.EpisodesDir), validation.NewSink(t.Root))
	if err != nil {
		return nil, err
	}

	tr := &AssetTrace{Asset: rec, Episodes: []EpisodeLink{}}
	for _, epID := range rec.SourceEpisodes {
		link := EpisodeLink{ID: epID}
		for _, ep := range episodes.Episodes {
			if ep.ID == epID {
				link.File = t.rel(ep.FilePath)
				link.Exists = true
				break
			}
		}
		tr.Episodes = append(tr.Episodes, link)
	}

	refs, err := t.references()
	if err != nil {
		return nil, err
	}
	tr.Prose = filter(refs.prose, id)
	tr.Output = filter(refs.output, id)
	return tr, nil
}

// Orphaned returns the assets that no prose document references.
func (t *Tracer) Orphaned() ([]validation.AssetRecord, error) {
	ledger, err := t.ledger()
	if err != nil {
		return nil, err
	}
	refs, err := t.references()
	if err != nil {
		return nil, err
	}

	used := make(map[string]bool)
	for _, occ := range refs.prose {
		used[occ.id] = true
	}

	orphans := []validation.AssetRecord{}
	for _, rec := range ledger.Records {
		if !used[rec.ID] {
			orphans = append(orphans, rec)
		}
	}
	return orphans, nil
}

func (t *Tracer) ledger() (*validation.Ledger, error) {
	path := filepath.Join(t.Root, filepath.FromSlash(validation.LedgerPath))
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoLedger
		}
		return nil, fmt.Errorf("checking ledger: %w", err)
	}
	return validation.ParseLedger(path, validation.NewSink(t.Root))
}

type taggedOccurrence struct {
	Occurrence
	id string
}

type referenceSet struct {
	prose  []taggedOccurrence
	output []taggedOccurrence
}

func (t *Tracer) references() (*referenceSet, error) {
	prose, err := t.scanDir("prose")
	if err != nil {
		return nil, err
	}
	output, err := t.scanDir("output")
	if err != nil {
		return nil, err
	}
	return &referenceSet{prose: prose, output: output}, nil
}

// scanDir collects asset mentions from the markdown files directly in dir,
// one occurrence per asset per line.
func (t *Tracer) scanDir(dir string) ([]taggedOccurrence, error) {
	entries, err := os.ReadDir(filepath.Join(t.Root, dir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}

	var found []taggedOccurrence
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".md") || validation.IsTriadFile(name) || excluded[name] {
			continue
		}
		path := filepath.Join(t.Root, dir, name)
		occs, err := scanFile(path, t.rel(path))
		if err != nil {
			return nil, err
		}
		found = append(found, occs...)
	}
	return found, nil
}

func scanFile(path, rel string) ([]taggedOccurrence, error) {
	var found []taggedOccurrence
	err := validation.ScanLines(path, func(lineNum int, line string) {
		seen := make(map[string]bool)
		for _, id := range validation.AssetRefPattern.FindAllString(line, -1) {
			if seen[id] {
				continue
			}
			seen[id] = true
			found = append(found, taggedOccurrence{
				Occurrence: Occurrence{File: rel, Line: lineNum, Text: strings.TrimSpace(line)},
				id:         id,
			})
		}
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func filter(occs []taggedOccurrence, id string) []Occurrence {
	out := []Occurrence{}
	for _, o := range occs {
		if o.id == id {
			out = append(out, o.Occurrence)
		}
	}
	return out
}

func (t *Tracer) rel(path string) string {
	rel, err := filepath.Rel(t.Root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
