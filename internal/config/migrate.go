package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"
)

const migratedHeader = "# changelog configuration\n# Migrated from JSON format\n\n"

// MigrationResult describes the outcome of a migration.
type MigrationResult struct {
	SourcePath string
	TargetPath string
	// Success is set when the YAML file was written, or would be on a dry run.
	Success bool
	DryRun  bool
	Message string
	// UnknownKeys lists dotted keys in the JSON file that are not configuration keys.
	UnknownKeys []string
}

// MigrateJSONToYAML rewrites the JSON config at jsonPath as YAML at yamlPath.
// An existing YAML file is never overwritten, and a missing JSON file is
// reported in the result rather than as an error.
func MigrateJSONToYAML(jsonPath, yamlPath string, dryRun bool) (*MigrationResult, error) {
	result := &MigrationResult{SourcePath: jsonPath, TargetPath: yamlPath, DryRun: dryRun}

	if _, err := os.Stat(jsonPath); errors.Is(err, fs.ErrNotExist) {
		result.Message = fmt.Sprintf("No JSON config found at %s", jsonPath)
		return result, nil
	}
	legacy := koanf.New(".")
	if err := legacy.Load(file.Provider(jsonPath), json.Parser()); err != nil {
		return nil, fmt.Errorf("reading JSON config %s: %w", jsonPath, err)
	}
	result.UnknownKeys = unknownKeys(legacy)

	if fileExists(yamlPath) {
		result.Message = fmt.Sprintf("YAML config already exists at %s (skipped)", yamlPath)
		return result, nil
	}
	if dryRun {
		result.Success = true
		result.Message = fmt.Sprintf("Would migrate %s → %s", jsonPath, yamlPath)
		return result, nil
	}

	body, err := yaml.Marshal(legacy.Raw())
	if err != nil {
		return nil, fmt.Errorf("encoding YAML config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(yamlPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(yamlPath, append([]byte(migratedHeader), body...), 0o644); err != nil {
		return nil, fmt.Errorf("writing YAML config: %w", err)
	}

	result.Success = true
	result.Message = fmt.Sprintf("Migrated %s → %s", jsonPath, yamlPath)
	return result, nil
}

// unknownKeys returns the sorted keys of k that have no schema.
func unknownKeys(k *koanf.Koanf) []string {
	var unknown []string
	for _, key := range k.Keys() {
		if _, err := GetKeySchema(key); err != nil {
			unknown = append(unknown, key)
		}
	}
	return unknown
}

// MigrateProjectConfig migrates the project config in dir from .changelog.json
// to .changelog.yml.
func MigrateProjectConfig(dir string, dryRun bool) (*MigrationResult, error) {
	return MigrateJSONToYAML(LegacyProjectConfigPath(dir), ProjectConfigPath(dir), dryRun)
}

// RemoveLegacyConfig moves a migrated JSON config aside to <path>.bak.
func RemoveLegacyConfig(jsonPath string, dryRun bool) error {
	if dryRun || !fileExists(jsonPath) {
		return nil
	}
	if err := os.Rename(jsonPath, jsonPath+".bak"); err != nil {
		return fmt.Errorf("backing up legacy config: %w", err)
	}
	return nil
}
