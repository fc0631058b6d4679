package cli

import (
	"github.com/ariel-frischer/changelog/internal/changelog"
	"github.com/ariel-frischer/changelog/internal/cli/shared"
	"github.com/spf13/cobra"
)

func newReleaseCmd(deps Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "release <version|major|minor|patch>",
		Short: "Move Unreleased entries into a new release",
		Long: `Cut a release: every entry under Unreleased moves into a new section
headed by the version and date, and the link definitions are regenerated.

The version is either explicit (1.4.0) or a bump of the latest release
(major, minor, patch). It must be greater than the latest release.

Releasing with nothing under Unreleased is refused unless --force is given
or empty_release is set to allow.`,
		Example: `  changelog release minor
  changelog release 1.0.0 --date 2024-05-01
  changelog release patch --force`,
		GroupID:   shared.GroupReleases,
		Args:      argsWithUsage(cobra.ExactArgs(1)),
		ValidArgs: []string{"major", "minor", "patch"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRelease(cmd, args, deps)
		},
	}
	cmd.Flags().StringP("date", "d", "", "Release date as YYYY-MM-DD (default: today)")
	cmd.Flags().Bool("force", false, "Release even when Unreleased is empty")
	return cmd
}

func runRelease(cmd *cobra.Command, args []string, deps Deps) error {
	target, err := changelog.ParseTarget(args[0])
	if err != nil {
		return err
	}
	date, _ := cmd.Flags().GetString("date")
	if date != "" {
		if err := changelog.ValidateDate(date); err != nil {
			return err
		}
	}
	force, _ := cmd.Flags().GetBool("force")

	e, err := loadEnv(cmd, deps)
	if err != nil {
		return err
	}
	doc, err := e.readDocument()
	if err != nil {
		return err
	}

	opts := changelog.ReleaseOptions{
		Target:      target,
		Date:        date,
		Clock:       deps.Clock,
		EmptyPolicy: e.cfg.EmptyPolicy(),
		Force:       force,
	}
	if e.cfg.Links {
		opts.RepoURL = e.repoURL()
	}
	section, err := changelog.Release(doc, opts)
	if err != nil {
		return err
	}
	if !e.cfg.Links {
		changelog.StripLinks(doc)
	}
	if err := e.writeDocument(doc); err != nil {
		return err
	}

	e.logger.Info("released", "version", section.Label, "date", section.Date, "entries", section.Count())
	e.printer.Success("Released version %s", section.Label)
	return nil
}
