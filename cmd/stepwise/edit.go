package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/x/editor"
	"github.com/mark3labs/stepwise/internal/definition"
	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit <file>",
	Short: "Open a wizard definition in $EDITOR and validate it",
	Args:  cobra.ExactArgs(1),
	RunE:  runEdit,
}

func runEdit(cmd *cobra.Command, args []string) error {
	path := args[0]

	c, err := editor.Command("stepwise", path)
	if err != nil {
		return fmt.Errorf("failed to prepare editor: %w", err)
	}
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		return fmt.Errorf("editor failed: %w", err)
	}

	def, err := definition.Load(path)
	if err != nil {
		return err
	}
	if err := def.Validate(); err != nil {
		return fmt.Errorf("invalid wizard %s: %w", path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s is valid (%d steps)\n", path, len(def.Steps))
	return nil
}
