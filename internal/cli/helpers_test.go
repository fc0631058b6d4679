package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ariel-frischer/changelog/internal/config"
	"github.com/ariel-frischer/changelog/internal/review"
	"github.com/ariel-frischer/changelog/internal/testutil"
	"github.com/fatih/color"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
)

// TestHelperProcess lets the test binary act as the review editor.
func TestHelperProcess(t *testing.T) {
	testutil.TestHelperProcess(t)
}

const sample = `# Changelog

## [Unreleased]

### Added

- Review command

## [1.1.0] - 2024-03-01

### Fixed

- Crash on empty file

## [1.0.0] - 2024-01-15

### Added

- Initial release

[Unreleased]: https://github.com/acme/widget/compare/v1.1.0...HEAD
[1.1.0]: https://github.com/acme/widget/compare/v1.0.0...v1.1.0
[1.0.0]: https://github.com/acme/widget/releases/tag/v1.0.0
`

var releaseDay = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

// result is the outcome of one CLI invocation.
type result struct {
	stdout string
	stderr string
	code   int
}

// project is an isolated working directory with no user config or overrides.
type project struct {
	t   *testing.T
	dir string
}

func newProject(t *testing.T) *project {
	t.Helper()

	noColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = noColor })

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	for _, name := range append(envOverrides(), "VISUAL", "EDITOR", "GITHUB_TOKEN") {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
	return &project{t: t, dir: t.TempDir()}
}

func envOverrides() []string {
	var names []string
	for _, key := range config.SortedKeys() {
		names = append(names, config.KnownKeys[key].EnvVar())
	}
	return names
}

// inRepo turns the project directory into a git repository.
func (p *project) inRepo() *testutil.GitRepo {
	p.t.Helper()
	return testutil.NewGitRepoAt(p.t, p.dir)
}

func (p *project) write(rel, content string) {
	p.t.Helper()
	path := filepath.Join(p.dir, rel)
	require.NoError(p.t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(p.t, os.WriteFile(path, []byte(content), 0o644))
}

func (p *project) read(rel string) string {
	p.t.Helper()
	data, err := os.ReadFile(filepath.Join(p.dir, rel))
	require.NoError(p.t, err)
	return string(data)
}

func (p *project) run(args ...string) result {
	p.t.Helper()
	return p.runWith(Deps{}, args...)
}

func (p *project) runWith(deps Deps, args ...string) result {
	p.t.Helper()
	deps.WorkDir = p.dir
	if deps.Clock == nil {
		deps.Clock = clockwork.NewFakeClockAt(releaseDay)
	}

	root := NewRootCmd(deps)
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	code := run(context.Background(), root, &stderr)
	return result{stdout: stdout.String(), stderr: stderr.String(), code: code}
}

// fakeSelector returns a fixed selection, or the preselection when pick is nil.
type fakeSelector struct {
	pick []int
	err  error

	commits  []review.Commit
	selected []bool
}

func (f *fakeSelector) Select(_ context.Context, commits []review.Commit, selected []bool) ([]int, error) {
	f.commits, f.selected = commits, selected
	if f.err != nil {
		return nil, f.err
	}
	if f.pick != nil {
		return f.pick, nil
	}
	var chosen []int
	for i, s := range selected {
		if s {
			chosen = append(chosen, i)
		}
	}
	return chosen, nil
}

// fakeEditor records the template and returns edit's result.
type fakeEditor struct {
	edit func(template string) (string, error)
	seen string
}

func (f *fakeEditor) Edit(_ context.Context, text string) (string, error) {
	f.seen = text
	if f.edit == nil {
		return text, nil
	}
	return f.edit(text)
}
