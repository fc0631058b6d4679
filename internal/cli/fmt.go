package cli

import (
	"github.com/ariel-frischer/changelog/internal/changelog"
	"github.com/ariel-frischer/changelog/internal/cli/shared"
	"github.com/spf13/cobra"
)

func newFmtCmd(deps Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fmt",
		Short: "Rewrite the changelog in canonical form",
		Long: `Parse the changelog and write it back in canonical form: releases newest
first, change types in the standard order, one bullet per entry and the
link definitions regenerated at the bottom.

With --check nothing is written; the command prints what would change and
exits with status 1 when the file is not canonical.`,
		Example: `  changelog fmt
  changelog fmt --check`,
		GroupID: shared.GroupEntries,
		Args:    argsWithUsage(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFmt(cmd, deps)
		},
	}
	cmd.Flags().Bool("check", false, "Report whether the file is formatted without writing it")
	return cmd
}

func runFmt(cmd *cobra.Command, deps Deps) error {
	check, _ := cmd.Flags().GetBool("check")

	e, err := loadEnv(cmd, deps)
	if err != nil {
		return err
	}
	doc, raw, err := e.readSource()
	if err != nil {
		return err
	}

	e.syncLinks(doc)
	formatted := changelog.Render(doc)

	if check {
		if formatted == raw {
			e.printer.Success("%s is formatted", e.displayPath())
			return nil
		}
		e.printer.Warn("%s is not formatted", e.displayPath())
		lines := changelog.DiffText(raw, formatted)
		if err := changelog.WriteDiff(e.out, onlyChanges(lines), e.formatOptions(false)); err != nil {
			return err
		}
		return shared.NewExitError(shared.ExitFailure)
	}

	if formatted == raw {
		e.printer.Info("%s already formatted", e.displayPath())
		return nil
	}
	if err := e.writeDocument(doc); err != nil {
		return err
	}
	e.printer.Success("Formatted %s", e.displayPath())
	return nil
}

// onlyChanges drops unchanged lines from a whole-file diff.
func onlyChanges(lines []changelog.DiffLine) []changelog.DiffLine {
	var out []changelog.DiffLine
	for _, l := range lines {
		if l.Op != changelog.DiffEqual {
			out = append(out, l)
		}
	}
	return out
}
