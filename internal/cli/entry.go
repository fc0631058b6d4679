package cli

import (
	"fmt"
	"strings"

	"github.com/ariel-frischer/changelog/internal/changelog"
	"github.com/ariel-frischer/changelog/internal/cli/shared"
	clierrors "github.com/ariel-frischer/changelog/internal/errors"
	"github.com/spf13/cobra"
)

// entryFormats are the values accepted by entry --format.
var entryFormats = []string{"markdown", "terminal", "yaml", "json"}

func newEntryCmd(deps Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entry <version|latest|unreleased>",
		Short: "Print the notes of one release",
		Long: `Print one section of the changelog, for release notes or CI.

The section is a version (with or without a "v" prefix), "latest" for the
newest release, or "unreleased".

Formats:
  markdown  the section as it appears in the file (default)
  terminal  colored, wrapped output for reading
  yaml      {version, date, changes: [{category, entries}]}
  json      same structure as yaml`,
		Example: `  changelog entry latest
  changelog entry 1.2.0 --format json
  changelog entry unreleased --format terminal`,
		GroupID: shared.GroupReleases,
		Args:    argsWithUsage(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEntry(cmd, args, deps)
		},
	}
	cmd.Flags().String("format", "markdown", "Output format: "+strings.Join(entryFormats, ", "))
	cmd.Flags().Bool("plain", false, "Plain terminal output (no colors/icons)")
	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return entryFormats, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func runEntry(cmd *cobra.Command, args []string, deps Deps) error {
	format, _ := cmd.Flags().GetString("format")
	plain, _ := cmd.Flags().GetBool("plain")

	e, err := loadEnv(cmd, deps)
	if err != nil {
		return err
	}
	doc, err := e.readDocument()
	if err != nil {
		return err
	}
	section, err := changelog.GetSection(doc, args[0])
	if err != nil {
		return err
	}

	switch format {
	case "markdown":
		_, err = fmt.Fprintln(e.out, strings.TrimRight(changelog.RenderSection(doc, section), "\n"))
		return err
	case "terminal":
		return changelog.FormatSection(section, e.out, e.formatOptions(plain))
	case "yaml":
		return changelog.WriteYAML(e.out, changelog.ExportSection(section))
	case "json":
		return changelog.WriteJSON(e.out, changelog.ExportSection(section))
	}
	return clierrors.NewArgumentError(
		fmt.Sprintf("unknown format: %s", format),
		"Valid formats: "+strings.Join(entryFormats, ", "),
	)
}
