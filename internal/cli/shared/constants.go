// Package shared provides constants and helpers used across CLI subpackages.
package shared

import (
	"errors"
	"fmt"
)

// Exit codes for the changelog CLI.
// These codes let scripts and CI tell failure classes apart.
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitFailure indicates a runtime failure (I/O, git, editor crash)
	ExitFailure = 1

	// ExitInvalidChangelog indicates the changelog file is malformed
	ExitInvalidChangelog = 2

	// ExitInvalidArguments indicates invalid arguments, versions or configuration
	ExitInvalidArguments = 3

	// ExitMissingPrerequisite indicates a missing changelog, repository or editor
	ExitMissingPrerequisite = 4

	// ExitPolicyRefused indicates a refused operation such as an empty release
	ExitPolicyRefused = 5
)

// Command groups shown in help output.
const (
	GroupGettingStarted = "getting-started"
	GroupEntries        = "entries"
	GroupReleases       = "releases"
	GroupInspect        = "inspect"
	GroupConfiguration  = "configuration"
)

// ExitError carries an exit code without a message. It is returned by
// commands that already reported their failure, such as fmt --check.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// NewExitError returns an error that makes the CLI exit with code.
func NewExitError(code int) error {
	return &ExitError{Code: code}
}

// ExitCode returns the exit code carried by err: ExitSuccess for nil, the
// code of an ExitError anywhere in the chain, ExitFailure otherwise.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}
