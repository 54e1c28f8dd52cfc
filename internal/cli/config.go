package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/canonic-tools/canonic/internal/cli/shared"
	"github.com/canonic-tools/canonic/internal/config"
	"github.com/canonic-tools/canonic/internal/report"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:     "config",
	Aliases: []string{"cfg"},
	Short:   "Inspect and change canonic configuration (cfg)",
	Long: `Inspect and change canonic configuration.

Settings are read from, lowest priority first:
  - built-in defaults
  - ~/.canonic/config.json
  - <root>/.canonic/config.json (or --config)
  - CANONIC_* environment variables`,
	GroupID: shared.GroupInformation,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		formatFlag, _ := cmd.Flags().GetString("format")
		format, err := parseInspectionFormat(formatFlag)
		if err != nil {
			return err
		}
		return showConfig(cmd.OutOrStdout(), s.cfg, format)
	},
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List all available configuration keys",
	Long:  `Display all valid configuration keys with their types, defaults and descriptions.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		listConfigKeys(cmd.OutOrStdout())
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the tree's config file.

By default, writes <root>/.canonic/config.json (or the file named by --config).
Use --global to write ~/.canonic/config.json instead.

The value is validated against the key's type before anything is written.`,
	Example: `  # Validate the user-guide/ pipeline by default
  canonic config set pipeline_dir user-guide

  # Prefer JSON reports everywhere
  canonic config set format json --global`,
	Args: func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(2)(cmd, args); err != nil {
			return shared.InvalidArguments(err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configTargetPath(cmd)
		if err != nil {
			return err
		}
		if err := config.SetConfigValue(path, args[0], args[1]); err != nil {
			return shared.InvalidArguments(fmt.Errorf("setting config value: %w", err))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s in %s\n", args[0], args[1], path)
		return nil
	},
}

func init() {
	configShowCmd.Flags().StringP("format", "f", "text", "Output format: text, json, yaml")
	configSetCmd.Flags().Bool("global", false, "Write the user-level config (~/.canonic/config.json)")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configKeysCmd)
	configCmd.AddCommand(configSetCmd)
}

func showConfig(out io.Writer, cfg *config.Configuration, format report.Format) error {
	if format != report.FormatText {
		return report.WriteValue(out, cfg, format)
	}

	rows := [][]string{
		{"pipeline_dir", cfg.PipelineDir},
		{"format", cfg.Format},
		{"color", cfg.Color},
		{"log_level", cfg.LogLevel},
		{"log_format", cfg.LogFormat},
		{"history", strconv.FormatBool(cfg.History)},
		{"watch_debounce_ms", strconv.Itoa(cfg.WatchDebounceMs)},
	}
	fmt.Fprintln(out, report.Table([]string{"Key", "Value"}, rows, nil))
	return nil
}

func listConfigKeys(out io.Writer) {
	rows := make([][]string, 0, len(config.KnownKeys))
	for _, key := range config.SortedKeys() {
		schema := config.KnownKeys[key]
		typeInfo := schema.Type.String()
		if schema.Type == config.TypeEnum {
			typeInfo = fmt.Sprintf("enum (%s)", strings.Join(schema.AllowedValues, ", "))
		}
		rows = append(rows, []string{key, typeInfo, fmt.Sprint(schema.Default), schema.Description})
	}
	fmt.Fprintln(out, report.Table([]string{"Key", "Type", "Default", "Description"}, rows, nil))
}

// configTargetPath picks the file config set writes.
func configTargetPath(cmd *cobra.Command) (string, error) {
	if global, _ := cmd.Flags().GetBool("global"); global {
		path, err := config.GlobalConfigPath()
		if err != nil {
			return "", err
		}
		return path, nil
	}
	if explicit, _ := cmd.Flags().GetString("config"); explicit != "" {
		return explicit, nil
	}
	rootFlag, _ := cmd.Flags().GetString("root")
	root, err := resolveRoot(rootFlag)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, config.LocalConfigPath), nil
}
