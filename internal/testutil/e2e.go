package testutil

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"
)

var (
	// changelogBinaryPath caches the built changelog binary path.
	changelogBinaryPath string
	changelogBuildOnce  sync.Once
	changelogBuildErr   error
)

// E2EEnv provides an isolated environment for E2E testing.
// It manages HOME and XDG_CONFIG_HOME isolation, a working directory and
// environment sanitization so user configuration never leaks into a test.
type E2EEnv struct {
	t         *testing.T
	tempDir   string
	workDir   string
	homeDir   string
	binDir    string
	extraEnv  []string
	cleanedUp bool
}

// CommandResult captures the result of running a changelog command.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// NewE2EEnv creates a new E2E test environment with the changelog binary on PATH.
func NewE2EEnv(t *testing.T) *E2EEnv {
	t.Helper()

	env := &E2EEnv{t: t}
	env.setup()
	t.Cleanup(env.Cleanup)

	return env
}

func (e *E2EEnv) setup() {
	e.t.Helper()

	tempDir, err := os.MkdirTemp("", "e2e-test-*")
	if err != nil {
		e.t.Fatalf("creating temp directory: %v", err)
	}
	e.tempDir = tempDir

	e.binDir = filepath.Join(tempDir, "bin")
	e.homeDir = filepath.Join(tempDir, "home")
	e.workDir = filepath.Join(tempDir, "project")
	for _, dir := range []string{e.binDir, e.homeDir, e.workDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			e.t.Fatalf("creating %s: %v", dir, err)
		}
	}

	e.buildChangelog()
}

func (e *E2EEnv) buildChangelog() {
	e.t.Helper()

	// Build changelog binary once per test session
	changelogBuildOnce.Do(func() {
		changelogBinaryPath, changelogBuildErr = doBuildChangelog()
	})

	if changelogBuildErr != nil {
		e.t.Fatalf("building changelog: %v", changelogBuildErr)
	}

	content, err := os.ReadFile(changelogBinaryPath)
	if err != nil {
		e.t.Fatalf("reading changelog binary: %v", err)
	}
	if err := os.WriteFile(filepath.Join(e.binDir, "changelog"), content, 0o755); err != nil {
		e.t.Fatalf("writing changelog binary: %v", err)
	}
}

func doBuildChangelog() (string, error) {
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("determining current file location")
	}
	// Navigate from internal/testutil/ to repo root
	repoRoot := filepath.Join(filepath.Dir(currentFile), "..", "..")

	tmpDir, err := os.MkdirTemp("", "changelog-build-*")
	if err != nil {
		return "", fmt.Errorf("creating temp dir for build: %w", err)
	}

	binaryPath := filepath.Join(tmpDir, "changelog")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/changelog")
	cmd.Dir = repoRoot
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("building changelog: %w\nOutput: %s", err, output)
	}

	return binaryPath, nil
}

// Run executes a changelog command in the isolated project directory.
func (e *E2EEnv) Run(args ...string) CommandResult {
	e.t.Helper()

	start := time.Now()

	cmd := exec.Command(filepath.Join(e.binDir, "changelog"), args...)
	cmd.Dir = e.workDir
	cmd.Env = e.buildIsolatedEnv()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := CommandResult{
		ExitCode: 0,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = 1
		}
	}

	return result
}

func (e *E2EEnv) buildIsolatedEnv() []string {
	systemPath := os.Getenv("PATH")
	isolatedPath := e.binDir
	if systemPath != "" {
		isolatedPath = e.binDir + string(os.PathListSeparator) + systemPath
	}

	env := []string{
		"PATH=" + isolatedPath,
		"HOME=" + e.homeDir,
		"XDG_CONFIG_HOME=" + filepath.Join(e.homeDir, ".config"),
		"NO_COLOR=1",
	}

	safeVars := []string{
		"LANG",
		"LC_ALL",
		"TMPDIR",
		"TMP",
		"TEMP",
	}
	for _, key := range safeVars {
		if val, ok := os.LookupEnv(key); ok {
			env = append(env, key+"="+val)
		}
	}

	// Editor and CHANGELOG_* settings come only from SetEnv.
	return append(env, e.extraEnv...)
}

// SetEnv adds an environment variable to every subsequent Run.
func (e *E2EEnv) SetEnv(key, value string) {
	e.extraEnv = append(e.extraEnv, key+"="+value)
}

// HasEnv reports whether the isolated environment carries key.
func (e *E2EEnv) HasEnv(key string) bool {
	for _, v := range e.buildIsolatedEnv() {
		if strings.HasPrefix(v, key+"=") {
			return true
		}
	}
	return false
}

// TempDir returns the root temp directory for this test environment.
func (e *E2EEnv) TempDir() string {
	return e.tempDir
}

// WorkDir returns the project directory commands run in.
func (e *E2EEnv) WorkDir() string {
	return e.workDir
}

// HomeDir returns the isolated HOME.
func (e *E2EEnv) HomeDir() string {
	return e.homeDir
}

// WriteFile writes content to a path relative to the project directory.
func (e *E2EEnv) WriteFile(rel, content string) {
	e.t.Helper()

	path := filepath.Join(e.workDir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		e.t.Fatalf("creating directory for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		e.t.Fatalf("writing %s: %v", rel, err)
	}
}

// ReadFile reads a path relative to the project directory.
func (e *E2EEnv) ReadFile(rel string) string {
	e.t.Helper()

	data, err := os.ReadFile(filepath.Join(e.workDir, rel))
	if err != nil {
		e.t.Fatalf("reading %s: %v", rel, err)
	}
	return string(data)
}

// FileExists checks if a path relative to the project directory exists.
func (e *E2EEnv) FileExists(rel string) bool {
	_, err := os.Stat(filepath.Join(e.workDir, rel))
	return err == nil
}

// WriteUserConfig writes the user-level config.yml under XDG_CONFIG_HOME.
func (e *E2EEnv) WriteUserConfig(content string) {
	e.t.Helper()

	dir := filepath.Join(e.homeDir, ".config", "changelog")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		e.t.Fatalf("creating user config directory: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yml"), []byte(content), 0o644); err != nil {
		e.t.Fatalf("writing user config: %v", err)
	}
}

// InitGitRepo initializes a git repository in the project directory.
func (e *E2EEnv) InitGitRepo() *GitRepo {
	e.t.Helper()
	return NewGitRepoAt(e.t, e.workDir)
}

// Cleanup removes temp files.
func (e *E2EEnv) Cleanup() {
	if e.cleanedUp {
		return
	}
	e.cleanedUp = true

	if e.tempDir != "" {
		if err := os.RemoveAll(e.tempDir); err != nil {
			e.t.Logf("note: could not remove temp directory: %v", err)
		}
	}
}
