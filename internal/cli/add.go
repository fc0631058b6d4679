package cli

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/ariel-frischer/changelog/internal/changelog"
	"github.com/ariel-frischer/changelog/internal/cli/shared"
	clierrors "github.com/ariel-frischer/changelog/internal/errors"
	"github.com/spf13/cobra"
)

func newAddCmd(deps Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <text>",
		Short: "Add an entry to the changelog",
		Long: `Add an entry under a change type in the Unreleased section, or in an
existing release with --version.

Change types: added (a), changed (c), deprecated (d), removed (r),
fixed (f), security (s). The default is changed.

Multiple arguments are joined with spaces, so quoting is optional.`,
		Example: `  changelog add "Support YAML export" -t added
  changelog add Fix crash on empty file -t f
  changelog add "Document --plain" -t added -v 1.2.0`,
		GroupID: shared.GroupEntries,
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd, args, deps)
		},
	}
	cmd.Flags().StringP("type", "t", "changed", "Change type: added, changed, deprecated, removed, fixed, security")
	cmd.Flags().StringP("version", "v", "", "Release to add to (default: Unreleased)")
	_ = cmd.RegisterFlagCompletionFunc("type", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return changelog.ValidCategories(), cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func runAdd(cmd *cobra.Command, args []string, deps Deps) error {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return clierrors.MissingEntryText()
	}

	typeFlag, _ := cmd.Flags().GetString("type")
	category, ok := changelog.LookupCategory(typeFlag)
	if !ok {
		return clierrors.UnknownCategory(typeFlag)
	}

	var target *semver.Version
	if versionFlag, _ := cmd.Flags().GetString("version"); versionFlag != "" {
		v, err := changelog.ParseVersion(versionFlag)
		if err != nil {
			return err
		}
		target = v
	}

	e, err := loadEnv(cmd, deps)
	if err != nil {
		return err
	}
	doc, err := e.readDocument()
	if err != nil {
		return err
	}

	section, err := changelog.ResolveSection(doc, target)
	if err != nil {
		return err
	}
	before := changelog.RenderSection(doc, section)

	if err := changelog.AddEntry(doc, text, category, target); err != nil {
		return err
	}
	e.syncLinks(doc)
	if err := e.writeDocument(doc); err != nil {
		return err
	}

	e.printer.Success("Added to %s under %s", section.Label, category)
	return e.showDiff(before, changelog.RenderSection(doc, section))
}
