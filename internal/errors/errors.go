// Package errors provides structured error handling for the changelog CLI.
// Every failure shown to the user carries a category, which also decides the
// exit code, and a short list of steps that fix it.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCategory represents the type of error that occurred.
type ErrorCategory int

const (
	// Argument errors are caused by invalid or missing command arguments.
	Argument ErrorCategory = iota
	// Configuration errors are caused by invalid configuration files or overrides.
	Configuration
	// Prerequisite errors occur when the changelog, repository or editor is missing.
	Prerequisite
	// Runtime errors occur during command execution.
	Runtime
	// Structural errors mean the changelog file itself is malformed.
	Structural
	// Policy errors refuse an operation that would produce a degenerate changelog.
	Policy
)

var categoryNames = map[ErrorCategory]string{
	Argument:      "Argument Error",
	Configuration: "Configuration Error",
	Prerequisite:  "Prerequisite Error",
	Runtime:       "Runtime Error",
	Structural:    "Changelog Error",
	Policy:        "Policy Error",
}

// String returns the label printed in front of the message.
func (c ErrorCategory) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "Error"
}

// CLIError is an error ready to be shown to the user.
type CLIError struct {
	Category ErrorCategory
	Message  string
	// Remediation lists steps that resolve the error, most likely first.
	Remediation []string
	// Usage is the command's usage line, shown for argument errors.
	Usage string
	// Err is the underlying cause, if any.
	Err error
}

func (e *CLIError) Error() string {
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// New creates an error of the given category.
func New(category ErrorCategory, message string, remediation ...string) *CLIError {
	return &CLIError{Category: category, Message: message, Remediation: remediation}
}

// NewArgumentError creates an argument error.
func NewArgumentError(message string, remediation ...string) *CLIError {
	return New(Argument, message, remediation...)
}

// NewArgumentErrorWithUsage creates an argument error that shows the correct usage.
func NewArgumentErrorWithUsage(message, usage string, remediation ...string) *CLIError {
	e := New(Argument, message, remediation...)
	e.Usage = usage
	return e
}

// NewPrerequisiteError creates a prerequisite error.
func NewPrerequisiteError(message string, remediation ...string) *CLIError {
	return New(Prerequisite, message, remediation...)
}

// Wrap turns err into a CLIError that keeps err's message.
func Wrap(err error, category ErrorCategory, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	e := New(category, err.Error(), remediation...)
	e.Err = err
	return e
}

// WrapWithMessage is Wrap with message prepended to err's text.
func WrapWithMessage(err error, category ErrorCategory, message string, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	e := New(category, fmt.Sprintf("%s: %v", message, err), remediation...)
	e.Err = err
	return e
}

// AsCLIError returns the first CLIError in the error chain, or nil.
func AsCLIError(err error) *CLIError {
	var cliErr *CLIError
	if stderrors.As(err, &cliErr) {
		return cliErr
	}
	return nil
}
