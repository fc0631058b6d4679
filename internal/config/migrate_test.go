package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateProjectConfig(t *testing.T) {
	tests := map[string]struct {
		json        string
		yamlExists  bool
		dryRun      bool
		wantSuccess bool
		wantWritten bool
		wantUnknown []string
	}{
		"migrates": {
			json:        `{"remote": "upstream", "review": {"order": "newest-last"}}`,
			wantSuccess: true,
			wantWritten: true,
		},
		"dry run": {
			json:        `{"remote": "upstream"}`,
			dryRun:      true,
			wantSuccess: true,
		},
		"existing yaml skipped": {
			json:       `{"remote": "upstream"}`,
			yamlExists: true,
		},
		"reports unknown keys": {
			json:        `{"remote": "upstream", "claude_cmd": "x", "review": {"colour": "red"}}`,
			wantSuccess: true,
			wantWritten: true,
			wantUnknown: []string{"claude_cmd", "review.colour"},
		},
		"no json": {},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.json != "" {
				writeFile(t, LegacyProjectConfigPath(dir), tt.json)
			}
			if tt.yamlExists {
				writeFile(t, ProjectConfigPath(dir), "remote: kept\n")
			}

			result, err := MigrateProjectConfig(dir, tt.dryRun)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSuccess, result.Success)
			assert.Equal(t, tt.wantUnknown, result.UnknownKeys)

			data, err := os.ReadFile(ProjectConfigPath(dir))
			switch {
			case tt.wantWritten:
				require.NoError(t, err)
				assert.Contains(t, string(data), "remote: upstream")
				assert.Contains(t, string(data), "# Migrated from JSON format")
			case tt.yamlExists:
				assert.Equal(t, "remote: kept\n", string(data))
			default:
				assert.True(t, os.IsNotExist(err))
			}
		})
	}
}

func TestMigratedConfigLoads(t *testing.T) {
	opts := isolatedOptions(t)
	writeFile(t, LegacyProjectConfigPath(opts.ProjectDir), `{"remote": "upstream", "review": {"order": "newest-last"}}`)

	_, err := MigrateProjectConfig(opts.ProjectDir, false)
	require.NoError(t, err)
	require.NoError(t, RemoveLegacyConfig(LegacyProjectConfigPath(opts.ProjectDir), false))

	cfg, err := LoadWithOptions(opts)
	require.NoError(t, err)
	assert.Equal(t, "upstream", cfg.Remote)
	assert.Equal(t, "newest-last", cfg.Review.Order)
	assert.FileExists(t, filepath.Join(opts.ProjectDir, ".changelog.json.bak"))
}

func TestRemoveLegacyConfig_DryRunKeepsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".changelog.json")
	writeFile(t, path, "{}")

	require.NoError(t, RemoveLegacyConfig(path, true))
	assert.FileExists(t, path)
	require.NoError(t, RemoveLegacyConfig(filepath.Join(t.TempDir(), "missing.json"), false))
}
