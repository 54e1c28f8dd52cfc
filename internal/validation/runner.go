package validation

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/canonic-tools/canonic/internal/git"
)

// Validator produces violations for a governed root.
type Validator interface {
	// Name identifies the validator in logs and errors.
	Name() string
	// Validate checks the tree at root. Data-quality problems are returned as
	// violations; only unexpected I/O failures are errors.
	Validate(root string) ([]Violation, error)
}

// Runner runs an ordered list of validators.
type Runner struct {
	Validators []Validator
	Logger     *slog.Logger
}

// NewRunner creates a runner for the given validators with a discarding logger.
func NewRunner(validators ...Validator) *Runner {
	return &Runner{
		Validators: validators,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Run executes every validator against root in order and concatenates their
// violations. The first unexpected error stops the run.
func (r *Runner) Run(root string) ([]Violation, error) {
	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	violations := []Violation{}
	for _, v := range r.Validators {
		start := time.Now()
		found, err := v.Validate(root)
		if err != nil {
			logger.Error("validator failed", "validator", v.Name(), "error", err)
			return nil, fmt.Errorf("%s validator: %w", v.Name(), err)
		}
		logger.Debug("validator finished",
			"validator", v.Name(),
			"violations", len(found),
			"duration", time.Since(start))
		violations = append(violations, found...)
	}
	return violations, nil
}

// Options configures the governance validator set.
type Options struct {
	PipelineDir string // pipeline root relative to the governed root
	History     bool   // include git history signals
	GitOpener   git.Opener
}

// Stage names of the content pipeline.
const (
	StageEpisodes = "episodes"
	StageAssets   = "assets"
	StageProse    = "prose"
	StageOutput   = "output"
)

// ValidStages returns the stage names accepted by ForStage.
func ValidStages() []string {
	return []string{StageEpisodes, StageAssets, StageProse, StageOutput}
}

// Default returns the full governance validator list in reporting order.
func Default(opts Options) []Validator {
	validators := []Validator{
		&RequiredArtifactsValidator{},
		&TriadValidator{},
		&DictionaryOrderValidator{},
		&NamingValidator{PipelineDir: opts.PipelineDir},
		&CanonStructureValidator{},
		&MachineSpecValidator{},
		&TerminologyValidator{},
		&LinkValidator{},
		&PipelineValidator{Dir: opts.PipelineDir},
	}
	if opts.History {
		validators = append(validators, &HistoryValidator{Opener: opts.GitOpener})
	}
	return validators
}

// ForStage returns the validators relevant to a single pipeline stage.
func ForStage(stage string, opts Options) ([]Validator, error) {
	pipeline := &PipelineValidator{Dir: opts.PipelineDir}
	switch stage {
	case StageEpisodes:
		return []Validator{&TriadValidator{}}, nil
	case StageAssets:
		return []Validator{&TriadValidator{}, pipeline, &MachineSpecValidator{}}, nil
	case StageProse, StageOutput:
		return []Validator{&TriadValidator{}, pipeline}, nil
	default:
		return nil, fmt.Errorf("unknown stage %q (valid stages: %s)", stage, strings.Join(ValidStages(), ", "))
	}
}
