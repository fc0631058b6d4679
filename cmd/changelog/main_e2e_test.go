//go:build e2e

package main

import (
	"strings"
	"testing"

	"github.com/ariel-frischer/changelog/internal/cli/shared"
	"github.com/ariel-frischer/changelog/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestE2E_ReleaseCycle drives the built binary through a full release cycle.
func TestE2E_ReleaseCycle(t *testing.T) {
	env := testutil.NewE2EEnv(t)
	repo := env.InitGitRepo()
	repo.Commit("feat: first")
	repo.AddRemote("origin", "https://github.com/acme/widget.git")

	steps := []struct {
		args []string
		want string
	}{
		{args: []string{"init"}, want: "Created CHANGELOG.md"},
		{args: []string{"add", "Initial import", "-t", "added"}, want: "Added to Unreleased under Added"},
		{args: []string{"release", "0.1.0", "-d", "2024-01-15"}, want: "Released version 0.1.0"},
		{args: []string{"add", "Crash on empty file", "-t", "fixed"}, want: "under Fixed"},
		{args: []string{"release", "patch", "-d", "2024-02-01"}, want: "Released version 0.1.1"},
	}
	for _, step := range steps {
		result := env.Run(step.args...)
		require.Equal(t, shared.ExitSuccess, result.ExitCode, "%v: %s", step.args, result.Stderr)
		assert.Contains(t, result.Stdout, step.want)
	}

	got := env.ReadFile("CHANGELOG.md")
	assert.Contains(t, got, "## [0.1.1] - 2024-02-01\n\n### Fixed\n\n- Crash on empty file\n")
	assert.True(t, strings.HasSuffix(got, `[Unreleased]: https://github.com/acme/widget/compare/v0.1.1...HEAD
[0.1.1]: https://github.com/acme/widget/compare/v0.1.0...v0.1.1
[0.1.0]: https://github.com/acme/widget/releases/tag/v0.1.0
`), got)

	result := env.Run("version", "list")
	require.Equal(t, shared.ExitSuccess, result.ExitCode, result.Stderr)
	assert.Equal(t, "0.1.1\n0.1.0\n", result.Stdout)

	result = env.Run("entry", "latest")
	require.Equal(t, shared.ExitSuccess, result.ExitCode, result.Stderr)
	assert.Equal(t, "## [0.1.1] - 2024-02-01\n\n### Fixed\n\n- Crash on empty file\n", result.Stdout)

	result = env.Run("fmt", "--check")
	assert.Equal(t, shared.ExitSuccess, result.ExitCode, result.Stdout)
}

// TestE2E_ExitCodes checks the process exit code for each failure class.
func TestE2E_ExitCodes(t *testing.T) {
	tests := map[string]struct {
		setup        func(env *testutil.E2EEnv)
		args         []string
		wantExitCode int
		wantStderr   string
	}{
		"success": {
			args:         []string{"version"},
			wantExitCode: shared.ExitSuccess,
		},
		"unformatted file": {
			setup: func(env *testutil.E2EEnv) {
				env.WriteFile("CHANGELOG.md", "# Changelog\n\n## Unreleased\n### Added\n* x\n")
			},
			args:         []string{"fmt", "--check"},
			wantExitCode: shared.ExitFailure,
		},
		"malformed changelog": {
			setup: func(env *testutil.E2EEnv) {
				env.WriteFile("CHANGELOG.md", "# Changelog\n\n## Unreleased\n\n### Misc\n\n- x\n")
			},
			args:         []string{"version", "list"},
			wantExitCode: shared.ExitInvalidChangelog,
			wantStderr:   "unknown category",
		},
		"unknown command": {
			args:         []string{"publish"},
			wantExitCode: shared.ExitFailure,
			wantStderr:   "unknown command",
		},
		"bad flag": {
			args:         []string{"show", "--last", "many"},
			wantExitCode: shared.ExitInvalidArguments,
		},
		"invalid user config": {
			setup: func(env *testutil.E2EEnv) {
				env.WriteFile("CHANGELOG.md", "# Changelog\n\n## Unreleased\n")
				env.WriteUserConfig("review:\n  order: sideways\n")
			},
			args:         []string{"show"},
			wantExitCode: shared.ExitInvalidArguments,
			wantStderr:   "Configuration Error",
		},
		"missing changelog": {
			args:         []string{"add", "text"},
			wantExitCode: shared.ExitMissingPrerequisite,
			wantStderr:   "changelog init",
		},
		"empty release": {
			setup: func(env *testutil.E2EEnv) {
				env.WriteFile("CHANGELOG.md", "# Changelog\n\n## Unreleased\n\n## 1.0.0 - 2024-01-15\n\n### Added\n\n- x\n")
			},
			args:         []string{"release", "patch"},
			wantExitCode: shared.ExitPolicyRefused,
			wantStderr:   "--force",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			env := testutil.NewE2EEnv(t)
			if tt.setup != nil {
				tt.setup(env)
			}

			result := env.Run(tt.args...)
			assert.Equal(t, tt.wantExitCode, result.ExitCode, "stdout: %s\nstderr: %s", result.Stdout, result.Stderr)
			assert.Contains(t, result.Stderr, tt.wantStderr)
		})
	}
}
