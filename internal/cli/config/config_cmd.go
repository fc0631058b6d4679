// Package config provides the 'changelog config' commands: show, keys, init
// and migrate.
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ariel-frischer/changelog/internal/cli/shared"
	"github.com/ariel-frischer/changelog/internal/config"
	clierrors "github.com/ariel-frischer/changelog/internal/errors"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewConfigCmd returns the config command tree. workDir is where the project
// is discovered from; empty means the current directory.
func NewConfigCmd(workDir string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and create configuration",
		Long: `Inspect and create changelog configuration.

Configuration precedence (highest to lowest):
  1. Environment variables (CHANGELOG_*)
  2. Project config (.changelog.yml at the repository root)
  3. User config (~/.config/changelog/config.yml)
  4. Built-in defaults`,
		GroupID: shared.GroupConfiguration,
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration and where each value came from",
		Example: `  changelog config show
  changelog config show --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd, workDir)
		},
	}
	show.Flags().Bool("json", false, "Output in JSON format")

	keys := &cobra.Command{
		Use:   "keys",
		Short: "List every configuration key with its type and default",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigKeys(cmd.OutOrStdout())
		},
	}

	cmd.AddCommand(show, keys, newInitCmd(workDir), newMigrateCmd(workDir))
	return cmd
}

// projectDir resolves the project directory for workDir.
func projectDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting current directory: %w", err)
		}
		workDir = wd
	}
	return shared.ProjectDir(workDir), nil
}

func runConfigShow(cmd *cobra.Command, workDir string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	out := cmd.OutOrStdout()

	dir, err := projectDir(workDir)
	if err != nil {
		return err
	}
	cfg, err := config.LoadWithOptions(config.LoadOptions{ProjectDir: dir, WarningWriter: cmd.ErrOrStderr()})
	if err != nil {
		return clierrors.ConfigParseError(err)
	}

	values := effectiveValues(cfg)
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(values); err != nil {
			return fmt.Errorf("encoding configuration: %w", err)
		}
	} else {
		data, err := yaml.Marshal(values)
		if err != nil {
			return fmt.Errorf("encoding configuration: %w", err)
		}
		fmt.Fprint(out, string(data))
	}

	printSources(out, cfg, dir)
	return nil
}

// effectiveValues nests the effective value of every known key by its path.
func effectiveValues(cfg *config.Configuration) map[string]any {
	values := make(map[string]any)
	for _, key := range config.SortedKeys() {
		parts := strings.Split(key, ".")
		m := values
		for _, p := range parts[:len(parts)-1] {
			next, ok := m[p].(map[string]any)
			if !ok {
				next = make(map[string]any)
				m[p] = next
			}
			m = next
		}
		m[parts[len(parts)-1]] = cfg.Value(key)
	}
	return values
}

func printSources(out io.Writer, cfg *config.Configuration, dir string) {
	dim := color.New(color.Faint).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(out, "\n%s\n", bold("Configuration Sources:"))
	if userPath, err := config.UserConfigPath(); err == nil {
		fmt.Fprintf(out, "  user:    %s%s\n", userPath, missingSuffix(userPath))
	}
	projectPath := config.ProjectConfigPath(dir)
	fmt.Fprintf(out, "  project: %s%s\n", projectPath, missingSuffix(projectPath))
	if legacy := config.LegacyProjectConfigPath(dir); fileExists(legacy) {
		fmt.Fprintf(out, "  legacy:  %s\n", legacy)
	}

	fmt.Fprintln(out)
	for _, key := range config.SortedKeys() {
		source := cfg.Source(key)
		if source == config.SourceDefault {
			continue
		}
		fmt.Fprintf(out, "  %-18s %s\n", key, dim("("+string(source)+")"))
	}
}

func missingSuffix(path string) string {
	if fileExists(path) {
		return ""
	}
	return " (not found)"
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func runConfigKeys(out io.Writer) error {
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	for _, key := range config.SortedKeys() {
		s := config.KnownKeys[key]
		fmt.Fprintf(out, "%s %s\n", bold(key), dim("("+s.Type.String()+")"))
		fmt.Fprintf(out, "  %s\n", s.Description)
		fmt.Fprintf(out, "  default: %v\n", formatDefault(s.Default))
		if len(s.AllowedValues) > 0 {
			fmt.Fprintf(out, "  values:  %s\n", strings.Join(s.AllowedValues, ", "))
		}
		fmt.Fprintf(out, "  env:     %s\n\n", s.EnvVar())
	}
	return nil
}

func formatDefault(v any) string {
	if s, ok := v.(string); ok && s == "" {
		return `""`
	}
	return fmt.Sprint(v)
}
