package cli

import (
	"fmt"

	"github.com/ariel-frischer/changelog/internal/changelog"
	"github.com/ariel-frischer/changelog/internal/cli/shared"
	"github.com/spf13/cobra"
)

func newShowCmd(deps Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the most recent changelog entries",
		Long: `Show the most recent entries across all sections, newest first, grouped
by section with color-coded change types.

By default, shows the 5 most recent entries. Use --last to control the count
and 'changelog entry' to see a whole release.`,
		Example: `  changelog show              # Show 5 most recent entries
  changelog show --last 10    # Show 10 most recent entries
  changelog show --plain      # Plain output (no colors/icons)`,
		GroupID: shared.GroupInspect,
		Args:    argsWithUsage(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, deps)
		},
	}
	cmd.Flags().Int("last", 5, "Number of entries to show")
	cmd.Flags().Bool("plain", false, "Plain text output (no colors/icons)")
	return cmd
}

func runShow(cmd *cobra.Command, deps Deps) error {
	last, _ := cmd.Flags().GetInt("last")
	plain, _ := cmd.Flags().GetBool("plain")

	e, err := loadEnv(cmd, deps)
	if err != nil {
		return err
	}
	doc, err := e.readDocument()
	if err != nil {
		return err
	}

	entries := changelog.GetLastN(doc, last)
	if len(entries) == 0 {
		fmt.Fprintln(e.out, "No changelog entries found.")
		return nil
	}

	if err := changelog.FormatTerminal(entries, e.out, e.formatOptions(plain)); err != nil {
		return fmt.Errorf("formatting entries: %w", err)
	}

	total := changelog.GetEntryCount(doc)
	if total > len(entries) {
		fmt.Fprintf(e.out, "\n(%d of %d entries shown. Use --last %d to see all)\n",
			len(entries), total, total)
	}
	return nil
}
