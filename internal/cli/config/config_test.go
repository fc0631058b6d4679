// Package config tests the CLI configuration commands.
// Related: internal/cli/config/config_cmd.go
// Tags: config, cli, show, keys, init, migrate

package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ariel-frischer/changelog/internal/config"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the user config at an empty directory and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	noColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = noColor })

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	for _, key := range config.SortedKeys() {
		t.Setenv(config.KnownKeys[key].EnvVar(), "")
		os.Unsetenv(config.KnownKeys[key].EnvVar())
	}
	return t.TempDir()
}

func execute(t *testing.T, dir, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewConfigCmd(dir)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRunConfigShow_YAMLOutput(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".changelog.yml"), []byte("remote: upstream\n"), 0o644))

	out, err := execute(t, dir, "", "show")
	require.NoError(t, err)

	assert.Contains(t, out, "remote: upstream")
	assert.Contains(t, out, "changelog_path: CHANGELOG.md")
	assert.Contains(t, out, "review:\n    order: newest-first")
	assert.Contains(t, out, "Configuration Sources")
	assert.Regexp(t, `remote\s+\(project\)`, out)
}

func TestRunConfigShow_JSONOutput(t *testing.T) {
	dir := isolate(t)
	t.Setenv("CHANGELOG_REVIEW_ORDER", "newest-last")

	out, err := execute(t, dir, "", "show", "--json")
	require.NoError(t, err)

	assert.Contains(t, out, `"order": "newest-last"`)
	assert.Contains(t, out, `"links": true`)
	assert.Regexp(t, `review\.order\s+\(env\)`, out)
}

func TestRunConfigShow_InvalidConfig(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".changelog.yml"), []byte("empty_release: maybe\n"), 0o644))

	_, err := execute(t, dir, "", "show")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty_release")
}

func TestRunConfigKeys(t *testing.T) {
	isolate(t)

	out, err := execute(t, "", "", "keys")
	require.NoError(t, err)

	for _, key := range config.SortedKeys() {
		assert.Contains(t, out, key)
	}
	assert.Contains(t, out, "CHANGELOG_REVIEW_ORDER")
	assert.Contains(t, out, "values:  reject, allow")
	assert.Contains(t, out, `default: ""`)
}

func TestRunConfigInit(t *testing.T) {
	tests := map[string]struct {
		existing string
		args     []string
		stdin    string
		wantFile string
	}{
		"creates project config": {
			args:     []string{"init"},
			wantFile: config.GetDefaultConfigTemplate(),
		},
		"declined overwrite keeps file": {
			existing: "remote: upstream\n",
			args:     []string{"init"},
			stdin:    "n\n",
			wantFile: "remote: upstream\n",
		},
		"confirmed overwrite": {
			existing: "remote: upstream\n",
			args:     []string{"init"},
			stdin:    "y\n",
			wantFile: config.GetDefaultConfigTemplate(),
		},
		"force skips prompt": {
			existing: "remote: upstream\n",
			args:     []string{"init", "--force"},
			wantFile: config.GetDefaultConfigTemplate(),
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := isolate(t)
			path := filepath.Join(dir, ".changelog.yml")
			if tt.existing != "" {
				require.NoError(t, os.WriteFile(path, []byte(tt.existing), 0o644))
			}

			_, err := execute(t, dir, tt.stdin, tt.args...)
			require.NoError(t, err)

			got, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFile, string(got))
		})
	}
}

func TestRunConfigInit_User(t *testing.T) {
	dir := isolate(t)

	_, err := execute(t, dir, "", "init", "--user")
	require.NoError(t, err)

	userPath, err := config.UserConfigPath()
	require.NoError(t, err)
	assert.FileExists(t, userPath)
	assert.NoFileExists(t, filepath.Join(dir, ".changelog.yml"))
}

func TestRunConfigMigrate(t *testing.T) {
	tests := map[string]struct {
		args        []string
		wantYAML    bool
		wantLegacy  bool
		wantBackup  bool
		wantMessage string
	}{
		"dry run": {
			args:        []string{"migrate", "--dry-run"},
			wantLegacy:  true,
			wantMessage: "Would migrate",
		},
		"migrate": {
			args:        []string{"migrate"},
			wantYAML:    true,
			wantLegacy:  true,
			wantMessage: "Migrated",
		},
		"migrate and remove legacy": {
			args:        []string{"migrate", "--remove-legacy"},
			wantYAML:    true,
			wantBackup:  true,
			wantMessage: "Renamed",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := isolate(t)
			legacy := filepath.Join(dir, ".changelog.json")
			require.NoError(t, os.WriteFile(legacy, []byte(`{"remote": "upstream", "colour": true}`), 0o644))

			out, err := execute(t, dir, "", tt.args...)
			require.NoError(t, err)

			assert.Contains(t, out, tt.wantMessage)
			assert.Contains(t, out, "unknown keys: colour")
			assert.Equal(t, tt.wantYAML, fileExists(filepath.Join(dir, ".changelog.yml")))
			assert.Equal(t, tt.wantLegacy, fileExists(legacy))
			assert.Equal(t, tt.wantBackup, fileExists(legacy+".bak"))
		})
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "subdir", "config.yml")

	require.NoError(t, writeDefaultConfig(configPath))

	content, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, config.GetDefaultConfigTemplate(), string(content))
}

func TestPromptYesNo(t *testing.T) {
	tests := map[string]struct {
		input string
		want  bool
	}{
		"yes":         {input: "yes\n", want: true},
		"y uppercase": {input: "Y\n", want: true},
		"no":          {input: "n\n", want: false},
		"empty":       {input: "\n", want: false},
		"eof":         {input: "", want: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cmd := &cobra.Command{}
			var out bytes.Buffer
			cmd.SetOut(&out)
			cmd.SetIn(strings.NewReader(tt.input))

			assert.Equal(t, tt.want, promptYesNo(cmd, "Overwrite?"))
			assert.Equal(t, "Overwrite? [y/N]: ", out.String())
		})
	}
}
