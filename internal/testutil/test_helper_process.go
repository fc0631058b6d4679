// Package testutil provides test utilities and helpers for changelog tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"testing"
)

// HelperEditorConfig configures the behavior of the helper-process editor.
type HelperEditorConfig struct {
	// Content replaces the edited file when Replace is set.
	Content string `json:"content"`
	Replace bool   `json:"replace"`
	// ExitCode is the exit code to return (default 0).
	ExitCode int `json:"exit_code"`
	// Stderr is the content to write to stderr.
	Stderr string `json:"stderr"`
	// SeenPath, when set, receives a copy of the file the editor was given.
	SeenPath string `json:"seen_path"`
}

// HelperProcessEnvVars contains the environment variable names used by TestHelperProcess.
const (
	// EnvWantHelperProcess signals that the test binary should run as a helper process.
	EnvWantHelperProcess = "GO_WANT_HELPER_PROCESS"
	// EnvHelperProcessConfig contains JSON-encoded HelperEditorConfig.
	EnvHelperProcessConfig = "GO_HELPER_PROCESS_CONFIG"
)

// TestHelperProcess is a function to be called from a test function to
// implement the helper process pattern. When invoked with
// GO_WANT_HELPER_PROCESS=1 it behaves as an editor: the last argument is the
// file to edit. It exits without returning.
//
// Usage in test file:
//
//	func TestHelperProcess(t *testing.T) {
//	    testutil.TestHelperProcess(t)
//	}
//
// If GO_WANT_HELPER_PROCESS is not set it returns immediately, allowing
// normal test execution.
func TestHelperProcess(t *testing.T) {
	if os.Getenv(EnvWantHelperProcess) != "1" {
		return
	}

	config := parseHelperConfig()
	os.Exit(runHelperEditor(config, os.Args[len(os.Args)-1]))
}

// parseHelperConfig parses HelperEditorConfig from environment variable.
func parseHelperConfig() HelperEditorConfig {
	config := HelperEditorConfig{}
	configJSON := os.Getenv(EnvHelperProcessConfig)
	if configJSON != "" {
		// Ignore parse errors; use defaults on failure
		_ = json.Unmarshal([]byte(configJSON), &config)
	}
	return config
}

// runHelperEditor applies config to the file at path and returns the exit code.
func runHelperEditor(config HelperEditorConfig, path string) int {
	if config.SeenPath != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "reading %s: %v\n", path, err)
			return 2
		}
		if err := os.WriteFile(config.SeenPath, data, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "writing %s: %v\n", config.SeenPath, err)
			return 2
		}
	}
	if config.Replace {
		if err := os.WriteFile(path, []byte(config.Content), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "writing %s: %v\n", path, err)
			return 2
		}
	}
	if config.Stderr != "" {
		fmt.Fprint(os.Stderr, config.Stderr)
	}
	return config.ExitCode
}

// HelperEditorCommand returns an editor command line that runs the test
// binary as a helper-process editor. The configuration travels through the
// environment, so it is set with t.Setenv and the test must not be parallel.
//
// Parameters:
//   - t: The test context
//   - testName: Name of the test function containing TestHelperProcess call
//   - config: Configuration for the editor behavior
func HelperEditorCommand(t *testing.T, testName string, config HelperEditorConfig) string {
	t.Helper()

	testBinary, err := os.Executable()
	if err != nil {
		t.Fatalf("failed to get test binary path: %v", err)
	}

	configJSON, err := json.Marshal(config)
	if err != nil {
		t.Fatalf("encoding helper config: %v", err)
	}
	t.Setenv(EnvWantHelperProcess, "1")
	t.Setenv(EnvHelperProcessConfig, string(configJSON))

	return fmt.Sprintf("%s -test.run=^%s$ --", shellQuote(testBinary), testName)
}

// shellQuote wraps s in single quotes for shlex-style splitting.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}
