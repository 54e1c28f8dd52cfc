package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/canonic-tools/canonic/internal/cli/shared"
	"github.com/canonic-tools/canonic/internal/report"
	"github.com/canonic-tools/canonic/internal/validation"
	"github.com/canonic-tools/canonic/internal/watch"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:     "validate",
	Aliases: []string{"v"},
	Short:   "Check reference integrity and cross-artifact consistency (v)",
	Long: `Check the governed tree and print a compliance report.

Runs, in order: required artifacts, triad presence, dictionary ordering,
artifact naming, CANON structure, machine spec naming, terminology,
markdown links, and the content pipeline checks (asset ledger, episode
names, prose references, asset sources, structure order). --history adds
git history signals.

Exits 0 when compliant, 1 when any violation is found.`,
	Example: `  # Validate the current directory
  canonic validate

  # Only the checks relevant to the prose stage
  canonic validate --stage prose

  # Pipeline lives in a subdirectory
  canonic validate --pipeline-dir book

  # Counts per requirement
  canonic validate --format summary`,
	Args:    cobra.NoArgs,
	GroupID: shared.GroupChecks,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		opts, err := validateOptionsFromFlags(cmd, s)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
		defer stop()
		return runValidate(ctx, opts, cmd.OutOrStdout(), s.logger)
	},
}

func init() {
	validateCmd.Flags().String("stage", "", "Run only the checks for one pipeline stage: episodes, assets, prose, output")
	validateCmd.Flags().StringP("format", "f", "", "Report format: text, json, yaml, summary")
	validateCmd.Flags().String("color", "", "Color output: auto, always, never")
	validateCmd.Flags().Bool("history", false, "Include git history signals")
	validateCmd.Flags().String("pipeline-dir", "", "Pipeline directory relative to the root")
	validateCmd.Flags().BoolP("watch", "w", false, "Re-validate whenever markdown changes")
}

// validateOptions is everything runValidate needs.
type validateOptions struct {
	Root       string
	Validators []validation.Validator
	Format     report.Format
	Color      bool
	Watch      bool
	Debounce   time.Duration
}

// validateOptionsFromFlags merges command flags over the loaded configuration.
func validateOptionsFromFlags(cmd *cobra.Command, s *settings) (validateOptions, error) {
	cfg := s.cfg
	flags := cmd.Flags()

	if flags.Changed("format") {
		cfg.Format, _ = flags.GetString("format")
	}
	if flags.Changed("color") {
		cfg.Color, _ = flags.GetString("color")
	}
	if flags.Changed("history") {
		cfg.History, _ = flags.GetBool("history")
	}
	stage, _ := flags.GetString("stage")
	watchMode, _ := flags.GetBool("watch")

	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return validateOptions{}, shared.InvalidArguments(err)
	}

	var out *os.File
	if f, ok := cmd.OutOrStdout().(*os.File); ok {
		out = f
	}
	color, err := report.ResolveColor(cfg.Color, out)
	if err != nil {
		return validateOptions{}, shared.InvalidArguments(err)
	}

	validators, err := selectValidators(stage, validation.Options{
		PipelineDir: cfg.PipelineDir,
		History:     cfg.History,
	})
	if err != nil {
		return validateOptions{}, err
	}

	return validateOptions{
		Root:       s.root,
		Validators: validators,
		Format:     format,
		Color:      color,
		Watch:      watchMode,
		Debounce:   time.Duration(cfg.WatchDebounceMs) * time.Millisecond,
	}, nil
}

// selectValidators returns the full governance set, or a stage subset.
func selectValidators(stage string, opts validation.Options) ([]validation.Validator, error) {
	if stage == "" {
		return validation.Default(opts), nil
	}
	validators, err := validation.ForStage(stage, opts)
	if err != nil {
		return nil, shared.InvalidArguments(err)
	}
	return validators, nil
}

// runValidate validates once and, in watch mode, again after every change
// until ctx is done. The returned error carries the exit code of the last run.
func runValidate(ctx context.Context, opts validateOptions, out io.Writer, logger *slog.Logger) error {
	result := validateOnce(opts, out, logger)
	if !opts.Watch || shared.ExitCode(result) == ExitUnexpectedError {
		return result
	}

	w, err := watch.New(watch.Config{Root: opts.Root, Debounce: opts.Debounce, Logger: logger})
	if err != nil {
		return err
	}
	logger.Info("watching for changes", "root", opts.Root, "debounce", opts.Debounce)

	err = w.Run(ctx, func(context.Context) error {
		fmt.Fprintf(out, "\n--- %s ---\n", time.Now().Format(time.TimeOnly))
		result = validateOnce(opts, out, logger)
		if shared.ExitCode(result) == ExitUnexpectedError {
			return result
		}
		return nil
	})
	if err != nil {
		return err
	}
	return result
}

// validateOnce runs the validators and renders the report.
func validateOnce(opts validateOptions, out io.Writer, logger *slog.Logger) error {
	runner := validation.NewRunner(opts.Validators...)
	runner.Logger = logger

	start := time.Now()
	violations, err := runner.Run(opts.Root)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	logger.Info("validation finished",
		"violations", len(violations),
		"validators", len(opts.Validators),
		"duration", time.Since(start))

	if err := report.Render(out, violations, report.Options{Format: opts.Format, Color: opts.Color}); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}

	if len(violations) > 0 {
		return shared.NewExitError(ExitViolations)
	}
	return nil
}
