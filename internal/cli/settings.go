package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/canonic-tools/canonic/internal/cli/shared"
	"github.com/canonic-tools/canonic/internal/config"
	"github.com/canonic-tools/canonic/internal/logging"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// settings is the resolved state shared by every command run.
type settings struct {
	root   string
	cfg    *config.Configuration
	logger *slog.Logger
}

// loadSettings resolves the governed root, loads configuration and applies
// the persistent flag overrides.
func loadSettings(cmd *cobra.Command) (*settings, error) {
	rootFlag, _ := cmd.Flags().GetString("root")
	configPath, _ := cmd.Flags().GetString("config")

	root, err := resolveRoot(rootFlag)
	if err != nil {
		return nil, err
	}

	if configPath == "" {
		configPath = filepath.Join(root, config.LocalConfigPath)
	} else if _, err := os.Stat(configPath); err != nil {
		return nil, shared.InvalidArguments(fmt.Errorf("config file %s: %w", configPath, err))
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, shared.InvalidArguments(err)
	}

	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
	}
	if cmd.Flags().Changed("log-format") {
		cfg.LogFormat, _ = cmd.Flags().GetString("log-format")
	}
	if cmd.Flags().Changed("pipeline-dir") {
		dir, _ := cmd.Flags().GetString("pipeline-dir")
		cfg.PipelineDir = filepath.ToSlash(strings.Trim(dir, "/"))
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Writer: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, shared.InvalidArguments(err)
	}
	logger = logger.With("run_id", uuid.NewString(), "command", cmd.Name())
	logger.Debug("settings loaded", "root", root, "config", configPath, "pipeline_dir", cfg.PipelineDir)

	return &settings{root: root, cfg: cfg, logger: logger}, nil
}

// pipelineBase returns the absolute directory holding episodes/, assets/,
// prose/ and output/.
func pipelineBase(s *settings) string {
	if s.cfg.PipelineDir == "" {
		return s.root
	}
	return filepath.Join(s.root, filepath.FromSlash(s.cfg.PipelineDir))
}

// resolveRoot returns the absolute governed root, which must be a directory.
func resolveRoot(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", shared.InvalidArguments(fmt.Errorf("resolving root: %w", err))
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", shared.InvalidArguments(fmt.Errorf("root %s: %w", dir, err))
	}
	if !info.IsDir() {
		return "", shared.InvalidArguments(fmt.Errorf("root %s is not a directory", dir))
	}
	return abs, nil
}
