package cli

import (
	"errors"

	"github.com/ariel-frischer/changelog/internal/cli/shared"
	clierrors "github.com/ariel-frischer/changelog/internal/errors"
	"github.com/spf13/cobra"
)

// ExitCodeFor maps a command error to the process exit code.
//
//	0 success
//	1 runtime failure
//	2 malformed changelog
//	3 invalid arguments, versions or configuration
//	4 missing prerequisite (changelog, repository, editor)
//	5 policy refusal
func ExitCodeFor(err error) int {
	if err == nil {
		return shared.ExitSuccess
	}
	if isSilent(err) {
		return shared.ExitCode(err)
	}

	switch clierrors.FromError(err).Category {
	case clierrors.Argument, clierrors.Configuration:
		return shared.ExitInvalidArguments
	case clierrors.Prerequisite:
		return shared.ExitMissingPrerequisite
	case clierrors.Structural:
		return shared.ExitInvalidChangelog
	case clierrors.Policy:
		return shared.ExitPolicyRefused
	}
	return shared.ExitFailure
}

// isSilent reports whether err only carries an exit code.
func isSilent(err error) bool {
	var exitErr *shared.ExitError
	return errors.As(err, &exitErr)
}

// argsWithUsage turns positional argument errors into argument errors that
// show the command's usage line.
func argsWithUsage(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return clierrors.NewArgumentErrorWithUsage(err.Error(), cmd.UseLine(),
				"Run '"+cmd.CommandPath()+" --help' for usage")
		}
		return nil
	}
}
