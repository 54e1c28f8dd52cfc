// Package health checks that a governed tree has what validation needs:
// a readable root, a root CANON.md, an asset ledger and episodes, plus an
// optional git repository for history signals.
package health

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/canonic-tools/canonic/internal/git"
	"github.com/canonic-tools/canonic/internal/validation"
	gogit "github.com/go-git/go-git/v5"
)

// CheckResult represents the result of a single health check
type CheckResult struct {
	Name     string `json:"name" yaml:"name"`
	Passed   bool   `json:"passed" yaml:"passed"`
	Optional bool   `json:"optional,omitempty" yaml:"optional,omitempty"` // a failure does not fail the report
	Message  string `json:"message" yaml:"message"`
}

// HealthReport contains all health check results
type HealthReport struct {
	Checks []CheckResult `json:"checks" yaml:"checks"`
	Passed bool          `json:"passed" yaml:"passed"`
}

func (r *HealthReport) add(c CheckResult) {
	r.Checks = append(r.Checks, c)
	if !c.Passed && !c.Optional {
		r.Passed = false
	}
}

// RunHealthChecks runs all health checks against root and returns a report.
// The git check uses opener; nil means the on-disk repository.
func RunHealthChecks(root string, opener git.Opener) *HealthReport {
	report := &HealthReport{
		Checks: make([]CheckResult, 0),
		Passed: true,
	}

	rootCheck := CheckRoot(root)
	report.add(rootCheck)
	if !rootCheck.Passed {
		return report
	}

	report.add(CheckCanon(root))
	report.add(CheckLedger(root))
	report.add(CheckEpisodes(root))
	report.add(CheckGitRepository(root, opener))

	return report
}

// CheckRoot checks that root is a readable directory
func CheckRoot(root string) CheckResult {
	info, err := os.Stat(root)
	if err != nil {
		return CheckResult{Name: "Root", Message: fmt.Sprintf("cannot access %s: %v", root, err)}
	}
	if !info.IsDir() {
		return CheckResult{Name: "Root", Message: fmt.Sprintf("%s is not a directory", root)}
	}
	return CheckResult{Name: "Root", Passed: true, Message: root}
}

// CheckCanon checks for the root CANON.md
func CheckCanon(root string) CheckResult {
	data, err := os.ReadFile(filepath.Join(root, validation.CanonFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return CheckResult{Name: "CANON", Message: "CANON.md not found at root"}
		}
		return CheckResult{Name: "CANON", Message: fmt.Sprintf("reading CANON.md: %v", err)}
	}
	if !strings.Contains(string(data), "# CANON") {
		return CheckResult{Name: "CANON", Message: "CANON.md has no '# CANON' header"}
	}
	return CheckResult{Name: "CANON", Passed: true, Message: "CANON.md found"}
}

// CheckLedger checks that the asset ledger exists and counts its records
func CheckLedger(root string) CheckResult {
	path := filepath.Join(root, filepath.FromSlash(validation.LedgerPath))
	if _, err := os.Stat(path); err != nil {
		return CheckResult{Name: "Asset ledger", Message: validation.LedgerPath + " not found"}
	}

	sink := validation.NewSink(root)
	ledger, err := validation.ParseLedger(path, sink)
	if err != nil {
		return CheckResult{Name: "Asset ledger", Message: err.Error()}
	}
	msg := fmt.Sprintf("%d assets registered", len(ledger.Records))
	if n := len(sink.Violations()); n > 0 {
		return CheckResult{Name: "Asset ledger", Message: fmt.Sprintf("%s, %d ledger violations", msg, n)}
	}
	return CheckResult{Name: "Asset ledger", Passed: true, Message: msg}
}

// CheckEpisodes checks that at least one correctly named episode exists
func CheckEpisodes(root string) CheckResult {
	index, err := validation.ListEpisodes(filepath.Join(root, validation.EpisodesDir), validation.NewSink(root))
	if err != nil {
		return CheckResult{Name: "Episodes", Message: err.Error()}
	}
	if index.Len() == 0 {
		return CheckResult{Name: "Episodes", Message: "no episode-NN.md files in episodes/"}
	}
	return CheckResult{Name: "Episodes", Passed: true, Message: fmt.Sprintf("%d episodes", index.Len())}
}

// CheckGitRepository checks whether root is inside a git repository. History
// signals need one, so the check is optional.
func CheckGitRepository(root string, opener git.Opener) CheckResult {
	if opener == nil {
		opener = &git.DefaultOpener{}
	}
	result := CheckResult{Name: "Git repository", Optional: true}
	if _, err := opener.Open(root); err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			result.Message = "not a git repository; --history has nothing to inspect"
			return result
		}
		result.Message = err.Error()
		return result
	}
	result.Passed = true
	result.Message = "repository found"
	return result
}

// FormatReport formats the health report for console output
func FormatReport(report *HealthReport) string {
	var sb strings.Builder

	for _, check := range report.Checks {
		mark := "✗"
		if check.Passed {
			mark = "✓"
		} else if check.Optional {
			mark = "!"
		}
		fmt.Fprintf(&sb, "%s %s: %s\n", mark, check.Name, check.Message)
	}

	return sb.String()
}
