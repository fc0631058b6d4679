// Package config provides hierarchical configuration management for changelog using koanf.
// Configuration is loaded with priority: environment variables > project config (.changelog.yml)
// > user config (~/.config/changelog/config.yml) > defaults. A legacy project .changelog.json
// is still read, with a migration warning.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ariel-frischer/changelog/internal/changelog"
	"github.com/ariel-frischer/changelog/internal/git"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CHANGELOG_"

// ConfigSource tracks where a configuration value came from
type ConfigSource string

const (
	SourceDefault ConfigSource = "default"
	SourceUser    ConfigSource = "user"
	SourceProject ConfigSource = "project"
	SourceEnv     ConfigSource = "env"
)

// Configuration represents the changelog CLI configuration
type Configuration struct {
	ChangelogPath string `koanf:"changelog_path" validate:"required"`
	RepoURL       string `koanf:"repo_url" validate:"omitempty,url"`
	Remote        string `koanf:"remote" validate:"required"`
	Links         bool   `koanf:"links"`
	Editor        string `koanf:"editor"`
	// EmptyRelease is the policy for releasing with nothing under Unreleased.
	EmptyRelease string       `koanf:"empty_release" validate:"oneof=reject allow"`
	Review       ReviewConfig `koanf:"review"`
	ShowDiff     bool         `koanf:"show_diff"`
	LogLevel     string       `koanf:"log_level" validate:"oneof=debug info warn error"`

	// ProjectDir is the directory project config and a relative changelog_path resolve against.
	ProjectDir string `koanf:"-"`

	k       *koanf.Koanf
	sources map[string]ConfigSource
}

// ReviewConfig configures the review command.
type ReviewConfig struct {
	Order     string `koanf:"order" validate:"oneof=newest-first newest-last"`
	Preselect bool   `koanf:"preselect"`
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// ProjectDir holds .changelog.yml (default: current directory).
	ProjectDir string
	// ProjectConfigPath overrides the project config path.
	ProjectConfigPath string
	// UserConfigPath overrides the user config path.
	UserConfigPath string
	// WarningWriter receives deprecation warnings (default: os.Stderr)
	WarningWriter io.Writer
	// SkipWarnings suppresses deprecation warnings
	SkipWarnings bool
}

// Load loads configuration for the project in projectDir.
func Load(projectDir string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectDir: projectDir})
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	if opts.ProjectDir == "" {
		opts.ProjectDir = "."
	}
	k := koanf.New(".")
	sources := make(map[string]ConfigSource)
	warningWriter := getWarningWriter(opts.WarningWriter)

	loadDefaults(k, sources)

	if err := loadUserConfig(k, sources, opts.UserConfigPath); err != nil {
		return nil, err
	}

	if err := loadProjectConfig(k, sources, opts, warningWriter); err != nil {
		return nil, err
	}

	if err := loadEnvironmentConfig(k, sources); err != nil {
		return nil, err
	}

	return finalizeConfig(k, sources, opts.ProjectDir)
}

// getWarningWriter returns the warning writer or defaults to stderr
func getWarningWriter(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

// loadDefaults applies default configuration values
func loadDefaults(k *koanf.Koanf, sources map[string]ConfigSource) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
		sources[key] = SourceDefault
	}
}

// loadUserConfig loads the user-level YAML config when present.
func loadUserConfig(k *koanf.Koanf, sources map[string]ConfigSource, customPath string) error {
	path := customPath
	if path == "" {
		path, _ = UserConfigPath()
	}
	if !fileExists(path) {
		return nil
	}
	if err := loadYAMLConfig(k, sources, path, SourceUser); err != nil {
		return fmt.Errorf("loading user YAML config: %w", err)
	}
	return nil
}

// loadProjectConfig loads project-level config (YAML preferred, legacy JSON supported).
// Warns if both exist (YAML used, JSON ignored) or if only legacy JSON exists.
func loadProjectConfig(k *koanf.Koanf, sources map[string]ConfigSource, opts LoadOptions, warningWriter io.Writer) error {
	yamlPath := ProjectConfigPath(opts.ProjectDir)
	if opts.ProjectConfigPath != "" {
		yamlPath = opts.ProjectConfigPath
	}
	legacyPath := LegacyProjectConfigPath(opts.ProjectDir)

	yamlExists := fileExists(yamlPath)
	legacyExists := fileExists(legacyPath)

	if yamlExists {
		if err := loadYAMLConfig(k, sources, yamlPath, SourceProject); err != nil {
			return fmt.Errorf("loading project YAML config: %w", err)
		}
		warnLegacyExists(warningWriter, legacyPath, yamlPath, legacyExists, opts.SkipWarnings)
	} else if legacyExists {
		if err := loadLegacyJSONConfig(k, sources, legacyPath, warningWriter, opts.SkipWarnings); err != nil {
			return fmt.Errorf("loading legacy project JSON config: %w", err)
		}
	}
	return nil
}

// loadYAMLConfig validates and loads a YAML config file
func loadYAMLConfig(k *koanf.Koanf, sources map[string]ConfigSource, path string, source ConfigSource) error {
	if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating YAML syntax for %s config: %w", source, err)
	}
	layer := koanf.New(".")
	if err := layer.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load %s config %s: %w", source, path, err)
	}
	return mergeLayer(k, layer, sources, source)
}

// loadLegacyJSONConfig loads legacy JSON and warns about migration
func loadLegacyJSONConfig(k *koanf.Koanf, sources map[string]ConfigSource, path string, warningWriter io.Writer, skipWarnings bool) error {
	layer := koanf.New(".")
	if err := layer.Load(file.Provider(path), json.Parser()); err != nil {
		return fmt.Errorf("failed to load legacy project config %s: %w", path, err)
	}
	if !skipWarnings {
		fmt.Fprintf(warningWriter, "Warning: Using deprecated JSON config at %s\n", path)
		fmt.Fprintf(warningWriter, "  Run 'changelog config migrate' to migrate to YAML format.\n\n")
	}
	return mergeLayer(k, layer, sources, SourceProject)
}

// warnLegacyExists warns if legacy JSON exists alongside new YAML
func warnLegacyExists(warningWriter io.Writer, legacyPath, yamlPath string, legacyExists, skipWarnings bool) {
	if legacyExists && !skipWarnings {
		fmt.Fprintf(warningWriter, "Warning: Legacy JSON config found at %s (ignored, using %s)\n", legacyPath, yamlPath)
		fmt.Fprintf(warningWriter, "  Run 'changelog config migrate' to remove the legacy file.\n\n")
	}
}

// loadEnvironmentConfig loads environment variable overrides
func loadEnvironmentConfig(k *koanf.Koanf, sources map[string]ConfigSource) error {
	layer := koanf.New(".")
	if err := layer.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return mergeLayer(k, layer, sources, SourceEnv)
}

// mergeLayer merges layer into k and records the keys it set.
func mergeLayer(k, layer *koanf.Koanf, sources map[string]ConfigSource, source ConfigSource) error {
	if err := k.Merge(layer); err != nil {
		return fmt.Errorf("merging %s config: %w", source, err)
	}
	for _, key := range layer.Keys() {
		sources[key] = source
	}
	return nil
}

// finalizeConfig unmarshals and validates the merged configuration.
func finalizeConfig(k *koanf.Koanf, sources map[string]ConfigSource, projectDir string) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ValidateConfigValues(&cfg, "config"); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.ProjectDir = projectDir
	cfg.k = k
	cfg.sources = sources
	return &cfg, nil
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envTransform converts environment variable names to config keys.
// Example: CHANGELOG_REVIEW_ORDER -> review.order. Unknown names are skipped.
func envTransform(s string) string {
	return envKeys[s]
}

// ChangelogFile returns changelog_path, resolved against ProjectDir when relative.
func (c *Configuration) ChangelogFile() string {
	if filepath.IsAbs(c.ChangelogPath) || c.ProjectDir == "" {
		return c.ChangelogPath
	}
	return filepath.Join(c.ProjectDir, c.ChangelogPath)
}

// EmptyPolicy returns the configured empty-release policy.
func (c *Configuration) EmptyPolicy() changelog.EmptyPolicy {
	if c.EmptyRelease == string(changelog.EmptyAllow) {
		return changelog.EmptyAllow
	}
	return changelog.EmptyReject
}

// CommitOrder returns the configured review order.
func (c *Configuration) CommitOrder() git.Order {
	order, err := git.ParseOrder(c.Review.Order)
	if err != nil {
		return git.NewestFirst
	}
	return order
}

// Value returns the effective value of a key path.
func (c *Configuration) Value(path string) any {
	if c.k == nil {
		return KnownKeys[path].Default
	}
	return c.k.Get(path)
}

// Source returns where the effective value of a key path came from.
func (c *Configuration) Source(path string) ConfigSource {
	if s, ok := c.sources[path]; ok {
		return s
	}
	return SourceDefault
}
