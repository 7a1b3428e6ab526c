package main

import (
	"fmt"
	"os"

	"github.com/aymanbagabas/go-udiff"
	"github.com/mark3labs/stepwise/internal/config"
	"github.com/spf13/cobra"
)

var setupFlags struct {
	project bool
	force   bool
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create stepwise configuration file",
	Long: `Create a stepwise configuration file with sensible defaults.

By default, creates a global config at ~/.config/stepwise/stepwise.yml.
Use --project to create a project-local config in the current directory.
When --force replaces an existing file, the changes are printed as a diff.`,
	RunE: runSetup,
}

func init() {
	setupCmd.Flags().BoolVarP(&setupFlags.project, "project", "p", false, "Create config in current directory instead of global location")
	setupCmd.Flags().BoolVarP(&setupFlags.force, "force", "f", false, "Overwrite existing config file")
}

func runSetup(cmd *cobra.Command, args []string) error {
	targetPath := config.GlobalPath()
	if setupFlags.project {
		targetPath = config.ProjectPath()
	}

	previous, err := os.ReadFile(targetPath)
	exists := err == nil
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read existing config: %w", err)
	}
	if exists && !setupFlags.force {
		return fmt.Errorf("config file already exists at %s\n\nUse --force to overwrite", targetPath)
	}

	newCfg := config.Default()
	if setupFlags.project {
		err = config.WriteProject(newCfg)
	} else {
		err = config.WriteGlobal(newCfg)
	}
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	out := cmd.OutOrStdout()
	if exists {
		data, err := config.Marshal(newCfg)
		if err != nil {
			return err
		}
		if diff := configDiff(targetPath, string(previous), string(data)); diff != "" {
			fmt.Fprintln(out, diff)
		}
	}

	fmt.Fprintf(out, "Config written to: %s\n\n", targetPath)
	fmt.Fprintln(out, "Run 'stepwise run <wizard.yml>' to get started.")
	return nil
}

// configDiff returns the unified diff between two versions of a config file,
// or "" when they are equal.
func configDiff(path, before, after string) string {
	if before == after {
		return ""
	}
	return udiff.Unified(path+" (old)", path+" (new)", before, after)
}
