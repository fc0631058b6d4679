package cli

import (
	"fmt"
	"runtime"

	"github.com/Masterminds/semver/v3"
	"github.com/ariel-frischer/changelog/internal/changelog"
	"github.com/ariel-frischer/changelog/internal/cli/shared"
	"github.com/spf13/cobra"
)

func newVersionCmd(deps Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Query the versions recorded in the changelog",
		Long: `Query released versions: the latest one, all of them, or the git revision
range a release covers.

Without a subcommand, prints the version of this tool.`,
		Example: `  changelog version latest
  changelog version list
  changelog version range          # v1.2.0..HEAD
  changelog version range 1.2.0    # v1.1.0..v1.2.0`,
		GroupID: shared.GroupInspect,
		Args:    argsWithUsage(cobra.NoArgs),
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "changelog %s\n", Version)
			fmt.Fprintf(out, "commit: %s\n", Commit)
			fmt.Fprintf(out, "built: %s\n", BuildDate)
			fmt.Fprintf(out, "go: %s\n", runtime.Version())
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "latest",
			Short: "Print the latest released version",
			Args:  argsWithUsage(cobra.NoArgs),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runVersionLatest(cmd, deps)
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "Print every released version, newest first",
			Args:  argsWithUsage(cobra.NoArgs),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runVersionList(cmd, deps)
			},
		},
		&cobra.Command{
			Use:   "range [version]",
			Short: "Print the git revision range of a release (default: unreleased)",
			Args:  argsWithUsage(cobra.MaximumNArgs(1)),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runVersionRange(cmd, args, deps)
			},
		},
	)
	return cmd
}

func runVersionLatest(cmd *cobra.Command, deps Deps) error {
	e, err := loadEnv(cmd, deps)
	if err != nil {
		return err
	}
	doc, err := e.readDocument()
	if err != nil {
		return err
	}
	if changelog.Latest(doc) == nil {
		return &changelog.UnknownVersionError{Version: "latest"}
	}
	_, err = fmt.Fprintln(e.out, doc.Releases[0].Label)
	return err
}

func runVersionList(cmd *cobra.Command, deps Deps) error {
	e, err := loadEnv(cmd, deps)
	if err != nil {
		return err
	}
	doc, err := e.readDocument()
	if err != nil {
		return err
	}
	for _, v := range changelog.ListVersions(doc) {
		fmt.Fprintln(e.out, v)
	}
	return nil
}

func runVersionRange(cmd *cobra.Command, args []string, deps Deps) error {
	var v *semver.Version
	if len(args) == 1 {
		parsed, err := changelog.ParseVersion(args[0])
		if err != nil {
			return err
		}
		v = parsed
	}

	e, err := loadEnv(cmd, deps)
	if err != nil {
		return err
	}
	doc, err := e.readDocument()
	if err != nil {
		return err
	}
	rng, err := changelog.GitRange(doc, v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(e.out, rng)
	return err
}
