package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ariel-frischer/changelog/internal/config"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newInitCmd(workDir string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented config file with every default",
		Long: `Write a config file listing every key with its default value.

By default the project config (.changelog.yml at the repository root) is
created. Use --user for the user config that applies to all projects.

An existing file is only replaced after confirmation or with --force.`,
		Example: `  changelog config init
  changelog config init --user
  changelog config init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigInit(cmd, workDir)
		},
	}
	cmd.Flags().Bool("user", false, "Create the user config instead of the project config")
	cmd.Flags().Bool("force", false, "Overwrite an existing config file")
	return cmd
}

func runConfigInit(cmd *cobra.Command, workDir string) error {
	user, _ := cmd.Flags().GetBool("user")
	force, _ := cmd.Flags().GetBool("force")
	out := cmd.OutOrStdout()

	configPath, err := getConfigPath(user, workDir)
	if err != nil {
		return err
	}

	if fileExists(configPath) && !force {
		if !promptYesNo(cmd, fmt.Sprintf("%s exists. Overwrite?", configPath)) {
			fmt.Fprintf(out, "Left %s unchanged\n", configPath)
			return nil
		}
	}

	if err := writeDefaultConfig(configPath); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s Created %s\n", color.GreenString("✓"), configPath)
	return nil
}

// getConfigPath returns the user config path or the project config path for workDir.
func getConfigPath(user bool, workDir string) (string, error) {
	if user {
		configPath, err := config.UserConfigPath()
		if err != nil {
			return "", fmt.Errorf("failed to get user config path: %w", err)
		}
		return configPath, nil
	}
	dir, err := projectDir(workDir)
	if err != nil {
		return "", err
	}
	return config.ProjectConfigPath(dir), nil
}

// writeDefaultConfig writes the default configuration to the given path
func writeDefaultConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	template := config.GetDefaultConfigTemplate()
	if err := os.WriteFile(configPath, []byte(template), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// promptYesNo prompts the user with a yes/no question that defaults to no.
func promptYesNo(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", question)

	reader := bufio.NewReader(cmd.InOrStdin())
	answer, _ := reader.ReadString('\n')
	answer = strings.TrimSpace(strings.ToLower(answer))

	return answer == "y" || answer == "yes"
}
