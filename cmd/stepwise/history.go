package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/stepwise/internal/definition"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history <file>",
	Short: "Show the recorded progress of a wizard",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	def, err := definition.Load(args[0])
	if err != nil {
		return err
	}

	j, err := openJournal(ctx, cfg)
	if err != nil {
		return err
	}
	if j == nil {
		return fmt.Errorf("the journal is disabled in config")
	}
	defer func() { _ = j.Close() }()

	p, err := j.LoadProgress(ctx, def.Name)
	if err != nil {
		return fmt.Errorf("loading progress: %w", err)
	}

	out := cmd.OutOrStdout()
	if p.Runs == 0 && !p.HasPosition() {
		fmt.Fprintf(out, "No recorded runs for %s\n", def.Name)
		return nil
	}

	fmt.Fprintf(out, "Wizard:       %s (%s)\n", def.Name, p.Wizard)
	fmt.Fprintf(out, "Runs:         %d (last %s)\n", p.Runs, p.LastRunID)
	fmt.Fprintf(out, "Current step: %s\n", p.CurrentStep)
	fmt.Fprintf(out, "Completed:    %s\n", strings.Join(p.CompletedSteps, ", "))
	fmt.Fprintf(out, "Transitions:  %d (%d refused)\n", p.Transitions, p.Refused)
	fmt.Fprintf(out, "Resets:       %d\n", p.Resets)
	fmt.Fprintf(out, "Finished:     %t\n", p.Completed)
	if !p.UpdatedAt.IsZero() {
		fmt.Fprintf(out, "Updated:      %s\n", p.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}
