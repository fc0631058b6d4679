package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/ariel-frischer/changelog/internal/changelog"
	"github.com/ariel-frischer/changelog/internal/git"
	"github.com/ariel-frischer/changelog/internal/review"
)

// Common error messages for the changelog CLI.
// These templates ensure consistent, actionable error messages.

// MissingChangelog creates an error for a changelog file that does not exist.
func MissingChangelog(path string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("changelog not found: %s", path),
		"Run 'changelog init' to create one",
		"Or point at an existing file with --file or changelog_path",
	)
}

// ChangelogExists creates an error when init would overwrite a file.
func ChangelogExists(path string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("changelog already exists: %s", path),
		"Run 'changelog fmt' to normalize the existing file",
		"Or pass --force to replace it with an empty changelog",
	)
}

// MissingEntryText creates an error for add without text.
func MissingEntryText() *CLIError {
	return NewArgumentErrorWithUsage(
		"entry text is required",
		"changelog add \"<text>\" [-t added|changed|deprecated|removed|fixed|security]",
		"Provide the entry text in quotes",
		"Example: changelog add \"Support YAML export\" -t added",
	)
}

// UnknownCategory creates an error for a category name the CLI does not accept.
func UnknownCategory(name string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("unknown change type: %s", name),
		"Valid types: added, changed, deprecated, removed, fixed, security",
		"One-letter aliases work too: a, c, d, r, f, s",
	)
}

// GitNotRepository creates an error when not in a git repository.
func GitNotRepository(path string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("not a git repository: %s", path),
		"Initialize with: git init",
		"Or run the command inside an existing repository",
	)
}

// NoEditor creates an error when review cannot find an editor.
func NoEditor() *CLIError {
	return NewPrerequisiteError(
		"no editor found for review",
		"Set $VISUAL or $EDITOR, e.g. export EDITOR=nano",
		"Or set 'editor' in .changelog.yml",
	)
}

// FileNotWritable creates an error when a file cannot be written.
func FileNotWritable(path string, err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		fmt.Sprintf("cannot write to file: %s", path),
		"Check file permissions: ls -la "+path,
		"Ensure parent directory exists and is writable",
	)
}

// ConfigParseError creates an error for an invalid config file.
func ConfigParseError(err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		"failed to load configuration",
		"Check .changelog.yml and ~/.config/changelog/config.yml for errors",
		"Run 'changelog config keys' to list valid keys and values",
	)
}

// FromError converts any error into a CLIError, choosing the category and
// remediation from the error's kind. CLIErrors pass through unchanged.
func FromError(err error) *CLIError {
	if err == nil {
		return nil
	}
	if cliErr := AsCLIError(err); cliErr != nil {
		return cliErr
	}

	switch {
	case stderrors.Is(err, review.ErrNoEditor):
		cliErr := NoEditor()
		cliErr.Err = err
		return cliErr
	case stderrors.Is(err, git.ErrNotRepository):
		return Wrap(err, Prerequisite,
			"Run the command inside a git repository",
			"Or initialize one with: git init",
		)
	}

	switch changelog.KindOf(err) {
	case changelog.KindStructural:
		return Wrap(err, Structural,
			"Fix the reported line in the changelog",
			"Headings must look like '## [1.2.3] - 2024-01-31' and categories like '### Added'",
		)
	case changelog.KindVersioning:
		return Wrap(err, Argument, versioningRemediation(err)...)
	case changelog.KindPolicy:
		return Wrap(err, Policy,
			"Add entries first with 'changelog add' or 'changelog review'",
			"Or release anyway with --force, or set 'empty_release: allow'",
		)
	case changelog.KindInteraction:
		return Wrap(err, Argument,
			"Each line must be '<type> <commit> <text>'",
			"Delete a line to skip that commit, or delete every line to cancel",
		)
	}
	return Wrap(err, Runtime)
}

func versioningRemediation(err error) []string {
	var unknown *changelog.UnknownVersionError
	var notIncreasing *changelog.VersionNotIncreasingError
	var noPrior *changelog.NoPriorVersionError
	switch {
	case stderrors.As(err, &unknown):
		return []string{"List released versions with: changelog version list"}
	case stderrors.As(err, &notIncreasing):
		return []string{"Release a version greater than the latest (see: changelog version latest)"}
	case stderrors.As(err, &noPrior):
		return []string{"Give the first release an explicit version, e.g. changelog release 0.1.0"}
	}
	return nil
}
