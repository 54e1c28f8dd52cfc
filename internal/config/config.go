// Package config loads canonic settings from defaults, JSON config files and
// CANONIC_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// envPrefix marks environment variables that override config keys.
const envPrefix = "CANONIC_"

// LocalConfigPath is the default per-tree config file, relative to the root.
const LocalConfigPath = ".canonic/config.json"

// Configuration represents the canonic CLI configuration
type Configuration struct {
	PipelineDir     string `koanf:"pipeline_dir" json:"pipeline_dir" yaml:"pipeline_dir"`
	Format          string `koanf:"format" json:"format" yaml:"format" validate:"required,oneof=text json yaml summary"`
	Color           string `koanf:"color" json:"color" yaml:"color" validate:"required,oneof=auto always never"`
	LogLevel        string `koanf:"log_level" json:"log_level" yaml:"log_level" validate:"required,oneof=debug info warn error"`
	LogFormat       string `koanf:"log_format" json:"log_format" yaml:"log_format" validate:"required,oneof=console json"`
	History         bool   `koanf:"history" json:"history" yaml:"history"`                                                           // Include git history signals in validate
	WatchDebounceMs int    `koanf:"watch_debounce_ms" json:"watch_debounce_ms" yaml:"watch_debounce_ms" validate:"min=10,max=60000"` // Quiet period before a watch re-run
}

// Load loads configuration from global, local, and environment sources
// Priority: Environment variables > Local config > Global config > Defaults
func Load(localConfigPath string) (*Configuration, error) {
	k := koanf.New(".")

	// Apply defaults first
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}

	// Load global config if it exists
	if globalPath, err := GlobalConfigPath(); err == nil {
		if err := loadIfExists(k, globalPath); err != nil {
			return nil, fmt.Errorf("failed to load global config: %w", err)
		}
	}

	// Load local config if it exists
	if localConfigPath != "" {
		if err := loadIfExists(k, localConfigPath); err != nil {
			return nil, fmt.Errorf("failed to load local config: %w", err)
		}
	}

	// Override with environment variables (highest priority)
	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.PipelineDir = filepath.ToSlash(strings.Trim(cfg.PipelineDir, "/"))
	return &cfg, nil
}

func loadIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return k.Load(file.Provider(path), json.Parser())
}

// envTransform converts environment variable names to config keys
// Example: CANONIC_PIPELINE_DIR -> pipeline_dir
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, envPrefix))
}
