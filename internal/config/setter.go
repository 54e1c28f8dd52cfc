package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/v2"
)

// GlobalConfigPath returns the user-level config file, ~/.canonic/config.json.
func GlobalConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".canonic", "config.json"), nil
}

// writeAtomically writes content to a file atomically using a temporary file and rename.
// Creates parent directories if they don't exist.
func writeAtomically(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	tmpFile, err := os.CreateTemp(dir, ".config-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		if tmpPath != "" {
			os.Remove(tmpPath)
		}
	}()
	if _, err := tmpFile.Write(content); err != nil {
		tmpFile.Close()
		return fmt.Errorf("writing to temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}
	tmpPath = "" // rename succeeded
	return nil
}

// SetConfigValue sets a configuration value in a JSON config file.
// The value is validated against the key schema, and the file merged over the
// defaults must still pass Configuration validation. Creates the file if it
// doesn't exist; other keys in the file are kept.
func SetConfigValue(filePath, key, value string) error {
	parsed, err := ValidateValue(key, value)
	if err != nil {
		return fmt.Errorf("validating value: %w", err)
	}

	fileK := koanf.New(".")
	if err := loadIfExists(fileK, filePath); err != nil {
		return fmt.Errorf("reading %s: %w", filePath, err)
	}
	if err := fileK.Set(key, parsed.Parsed); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}

	merged := koanf.New(".")
	for k, v := range GetDefaults() {
		merged.Set(k, v)
	}
	if err := merged.Merge(fileK); err != nil {
		return fmt.Errorf("merging config: %w", err)
	}
	var cfg Configuration
	if err := merged.Unmarshal("", &cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	data, err := fileK.Marshal(json.Parser())
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return writeAtomically(filePath, append(data, '\n'))
}
