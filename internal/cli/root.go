// Package cli implements the changelog command line.
package cli

import (
	"context"
	"io"
	"os"
	"os/signal"

	cliconfig "github.com/ariel-frischer/changelog/internal/cli/config"
	"github.com/ariel-frischer/changelog/internal/cli/shared"
	clierrors "github.com/ariel-frischer/changelog/internal/errors"
	"github.com/ariel-frischer/changelog/internal/review"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
)

// Version information - set via ldflags during build
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Deps are the collaborators commands use. Zero values select the real ones.
type Deps struct {
	// Selector picks commits during review (default: HuhSelector).
	Selector review.Selector
	// Editor categorizes commits during review (default: ExternalEditor using
	// $VISUAL, $EDITOR, then the editor config key).
	Editor review.Editor
	// Clock supplies today's date for releases.
	Clock clockwork.Clock
	// WorkDir is where the project is discovered from (default: current directory).
	WorkDir string
	// Stderr receives logs and config warnings (default: the command's stderr).
	Stderr io.Writer
}

// NewRootCmd builds the full command tree.
func NewRootCmd(deps Deps) *cobra.Command {
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}

	root := &cobra.Command{
		Use:   "changelog",
		Short: "Maintain a Keep a Changelog CHANGELOG.md",
		Long: `changelog maintains a CHANGELOG.md in the Keep a Changelog format.

It adds entries under Unreleased, cuts dated releases with the next semantic
version, turns git commits into entries through an interactive review, and
keeps the compare/tag link definitions at the bottom of the file in sync.`,
		Example: `  changelog init
  changelog add "Support YAML export" -t added
  changelog review
  changelog release minor
  changelog entry latest`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddGroup(
		&cobra.Group{ID: shared.GroupGettingStarted, Title: "Getting Started:"},
		&cobra.Group{ID: shared.GroupEntries, Title: "Entries:"},
		&cobra.Group{ID: shared.GroupReleases, Title: "Releases:"},
		&cobra.Group{ID: shared.GroupInspect, Title: "Inspect:"},
		&cobra.Group{ID: shared.GroupConfiguration, Title: "Configuration:"},
	)
	root.SetCompletionCommandGroupID(shared.GroupConfiguration)
	root.SetHelpCommandGroupID(shared.GroupGettingStarted)

	root.PersistentFlags().StringP("file", "f", "", "Changelog file (overrides changelog_path)")
	root.PersistentFlags().Bool("debug", false, "Enable debug logging")
	root.PersistentFlags().Bool("no-color", false, "Disable colored output")

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return clierrors.NewArgumentErrorWithUsage(err.Error(), cmd.UseLine(),
			"Run '"+cmd.CommandPath()+" --help' for usage")
	})

	root.AddCommand(
		newInitCmd(deps),
		newAddCmd(deps),
		newReviewCmd(deps),
		newReleaseCmd(deps),
		newFmtCmd(deps),
		newEntryCmd(deps),
		newShowCmd(deps),
		newVersionCmd(deps),
		cliconfig.NewConfigCmd(deps.WorkDir),
	)
	return root
}

// Execute runs the CLI with os.Args and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return run(ctx, NewRootCmd(Deps{}), os.Stderr)
}

// run executes root, reports a failure on stderr and returns the exit code.
func run(ctx context.Context, root *cobra.Command, stderr io.Writer) int {
	err := root.ExecuteContext(ctx)
	if err != nil && !isSilent(err) {
		clierrors.Fprint(stderr, err)
	}
	return ExitCodeFor(err)
}
