// Package git detects governance warning signs in a repository's commit
// history: reverts followed by fixes, bursts of CANON.md edits, and commit
// messages that admit to violations.
package git

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// SignalKind classifies a history signal.
type SignalKind string

const (
	SignalRevertPattern     SignalKind = "revert-pattern"
	SignalRapidCanonCommits SignalKind = "rapid-canon-commits"
	SignalViolationKeywords SignalKind = "violation-keywords"
)

// Signal is one warning sign found in history.
type Signal struct {
	Kind     SignalKind
	Artifact string // root-relative path the signal concerns
	Message  string
}

const (
	revertWindow      = 20
	keywordWindow     = 10
	rapidCommitWindow = 24 * time.Hour
	rapidCommitLimit  = 3
	maxQuotedCommits  = 3
	canonFile         = "CANON.md"
)

var violationKeywords = []*regexp.Regexp{
	regexp.MustCompile(`violation`),
	regexp.MustCompile(`fix.*integrity`),
	regexp.MustCompile(`fix.*reference`),
	regexp.MustCompile(`broken`),
	regexp.MustCompile(`invalid`),
	regexp.MustCompile(`revert.*fix`),
}

// Opener abstracts the method of opening a git repository
// This allows for dependency injection in tests
type Opener interface {
	// Open opens the repository containing path
	Open(path string) (Repository, error)
}

// Repository abstracts go-git repository operations for testing
type Repository interface {
	// Log returns the commit history selected by opts
	Log(opts *git.LogOptions) (object.CommitIter, error)
}

// DefaultOpener implements Opener using go-git's PlainOpen, searching parent
// directories for the .git directory.
type DefaultOpener struct{}

// Open opens a git repository at or above the given path using go-git
func (d *DefaultOpener) Open(p string) (Repository, error) {
	repo, err := git.PlainOpenWithOptions(p, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("opening repository: %w", err)
	}
	return repo, nil
}

// InMemoryOpener implements Opener for testing with in-memory storage
type InMemoryOpener struct {
	repo *git.Repository
}

// NewInMemoryOpener creates an Opener that always returns repo
func NewInMemoryOpener(repo *git.Repository) *InMemoryOpener {
	return &InMemoryOpener{repo: repo}
}

// Open returns the pre-configured in-memory repository
func (i *InMemoryOpener) Open(_ string) (Repository, error) {
	if i.repo == nil {
		return nil, fmt.Errorf("opening repository: %w", git.ErrRepositoryNotExists)
	}
	return i.repo, nil
}

// Detector inspects commit history for signals.
type Detector struct {
	Opener Opener
	Now    func() time.Time
}

// NewDetector creates a Detector backed by the on-disk repository.
func NewDetector() *Detector {
	return &Detector{Opener: &DefaultOpener{}, Now: time.Now}
}

// Detect returns the signals for the repository containing path. A path
// outside any repository, or a repository without commits, has no signals.
func (d *Detector) Detect(p string) ([]Signal, error) {
	opener := d.Opener
	if opener == nil {
		opener = &DefaultOpener{}
	}
	now := time.Now
	if d.Now != nil {
		now = d.Now
	}

	repo, err := opener.Open(p)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, nil
		}
		return nil, err
	}

	var signals []Signal

	all, err := subjects(repo, &git.LogOptions{All: true, Order: git.LogOrderCommitterTime}, revertWindow)
	if err != nil || all == nil {
		return nil, err
	}
	if desc := revertPattern(all); desc != "" {
		signals = append(signals, Signal{
			Kind:     SignalRevertPattern,
			Artifact: ".",
			Message: fmt.Sprintf("Git history shows revert pattern: %s. "+
				"This indicates failed validation. Human review required.", desc),
		})
	}

	since := now().Add(-rapidCommitWindow)
	canonCommits, err := subjects(repo, &git.LogOptions{
		Since:      &since,
		PathFilter: func(name string) bool { return path.Base(name) == canonFile },
	}, -1)
	if err != nil {
		return nil, err
	}
	if n := len(canonCommits); n > rapidCommitLimit {
		signals = append(signals, Signal{
			Kind:     SignalRapidCanonCommits,
			Artifact: canonFile,
			Message: fmt.Sprintf("Detected %d commits to CANON.md in last 24 hours. "+
				"Indicates constraint drift. Comprehensive validation recommended.", n),
		})
	}

	recent, err := subjects(repo, &git.LogOptions{}, keywordWindow)
	if err != nil {
		return nil, err
	}
	if hits := keywordCommits(recent); len(hits) > 0 {
		if len(hits) > maxQuotedCommits {
			hits = hits[:maxQuotedCommits]
		}
		signals = append(signals, Signal{
			Kind:     SignalViolationKeywords,
			Artifact: ".",
			Message: fmt.Sprintf("Recent commits reference violations: %s. "+
				"Validation should have been triggered.", strings.Join(hits, ", ")),
		})
	}

	return signals, nil
}

// subjects returns the first message line of up to limit commits (all when
// limit < 0). A repository without commits yields nil.
func subjects(repo Repository, opts *git.LogOptions, limit int) ([]string, error) {
	iter, err := repo.Log(opts)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading git log: %w", err)
	}
	defer iter.Close()

	lines := []string{}
	err = iter.ForEach(func(c *object.Commit) error {
		if limit >= 0 && len(lines) >= limit {
			return storer.ErrStop
		}
		subject, _, _ := strings.Cut(c.Message, "\n")
		lines = append(lines, strings.TrimSpace(subject))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading git log: %w", err)
	}
	return lines, nil
}

// revertPattern looks for a revert followed, within the next two older
// commits, by a reapply, fix or restore.
func revertPattern(subjects []string) string {
	for i := 0; i < len(subjects)-2; i++ {
		if !strings.Contains(strings.ToLower(subjects[i]), "revert") {
			continue
		}
		for _, next := range subjects[i+1 : i+3] {
			lower := strings.ToLower(next)
			if strings.Contains(lower, "reapply") || strings.Contains(lower, "fix") || strings.Contains(lower, "restore") {
				return fmt.Sprintf("found revert at commit %d, followed by fix/reapply", i)
			}
		}
	}
	return ""
}

func keywordCommits(subjects []string) []string {
	var hits []string
	for _, s := range subjects {
		lower := strings.ToLower(s)
		for _, kw := range violationKeywords {
			if kw.MatchString(lower) {
				hits = append(hits, s)
				break
			}
		}
	}
	return hits
}
