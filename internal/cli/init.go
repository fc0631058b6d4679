package cli

import (
	"github.com/ariel-frischer/changelog/internal/changelog"
	"github.com/ariel-frischer/changelog/internal/cli/shared"
	clierrors "github.com/ariel-frischer/changelog/internal/errors"
	"github.com/spf13/cobra"
)

func newInitCmd(deps Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create an empty CHANGELOG.md",
		Long: `Create a changelog with the Keep a Changelog header and an empty
Unreleased section.

An existing changelog is left alone unless --force is given.`,
		Example: `  changelog init
  changelog init --file docs/CHANGES.md
  changelog init --force`,
		GroupID: shared.GroupGettingStarted,
		Args:    argsWithUsage(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, deps)
		},
	}
	cmd.Flags().Bool("force", false, "Replace an existing changelog")
	return cmd
}

func runInit(cmd *cobra.Command, deps Deps) error {
	e, err := loadEnv(cmd, deps)
	if err != nil {
		return err
	}
	force, _ := cmd.Flags().GetBool("force")

	if changelog.Exists(e.path) && !force {
		return clierrors.ChangelogExists(e.displayPath())
	}

	if err := e.writeDocument(changelog.New()); err != nil {
		return err
	}
	e.printer.Success("Created %s", e.displayPath())
	return nil
}
