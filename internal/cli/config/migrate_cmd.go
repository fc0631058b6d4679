package config

import (
	"fmt"
	"strings"

	"github.com/ariel-frischer/changelog/internal/config"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newMigrateCmd(workDir string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Convert a legacy .changelog.json to .changelog.yml",
		Long: `Convert the project's legacy .changelog.json into .changelog.yml.

An existing .changelog.yml is never overwritten. Keys that are no longer
recognized are reported and carried over unchanged. With --remove-legacy the
JSON file is renamed to .changelog.json.bak once the YAML file exists.`,
		Example: `  changelog config migrate --dry-run
  changelog config migrate --remove-legacy`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigMigrate(cmd, workDir)
		},
	}
	cmd.Flags().Bool("dry-run", false, "Report what would happen without writing")
	cmd.Flags().Bool("remove-legacy", false, "Rename the JSON file to .bak after migrating")
	return cmd
}

func runConfigMigrate(cmd *cobra.Command, workDir string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	removeLegacy, _ := cmd.Flags().GetBool("remove-legacy")
	out := cmd.OutOrStdout()

	dir, err := projectDir(workDir)
	if err != nil {
		return err
	}

	result, err := config.MigrateProjectConfig(dir, dryRun)
	if err != nil {
		return fmt.Errorf("migrating project config: %w", err)
	}
	fmt.Fprintln(out, result.Message)
	if len(result.UnknownKeys) > 0 {
		fmt.Fprintf(out, "%s unknown keys: %s\n", color.YellowString("Warning:"), strings.Join(result.UnknownKeys, ", "))
	}

	if removeLegacy && result.Success && !dryRun {
		if err := config.RemoveLegacyConfig(result.SourcePath, dryRun); err != nil {
			return err
		}
		fmt.Fprintf(out, "Renamed %s to %s.bak\n", result.SourcePath, result.SourcePath)
	}
	return nil
}
