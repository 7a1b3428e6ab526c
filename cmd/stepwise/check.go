package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/mark3labs/stepwise/internal/definition"
	"github.com/mark3labs/stepwise/internal/tui"
	"github.com/mark3labs/stepwise/internal/wizard"
	"github.com/spf13/cobra"
)

var checkFlags struct {
	print bool
	mode  string
}

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Validate a wizard definition",
	Long: `Validate a wizard definition, build it and reset it under its navigation
policy, then print its steps and which of them the navigation bar links to.

Use --print to also show the normalized definition.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVarP(&checkFlags.print, "print", "p", false, "Print the normalized definition as highlighted YAML")
	checkCmd.Flags().StringVarP(&checkFlags.mode, "mode", "m", "", "Override the navigation mode")
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	w, err := loadWizard(ctx, args[0], cfg, checkFlags.mode)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d steps, %s navigation\n\n", w.def.Name, w.state.Len(), w.state.NavigationMode().Name())
	printSteps(out, w.state)

	if checkFlags.print {
		data, err := definition.Marshal(w.def)
		if err != nil {
			return err
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, tui.Highlight(string(data), "wizard.yml"))
	}
	return nil
}

// printSteps writes one row per step with its flags and navigability.
func printSteps(out io.Writer, st *wizard.State) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "#\tID\tTITLE\tKIND\tFLAGS\tNAVIGABLE")
	for i, step := range st.Steps() {
		f := step.Flags()
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%t\n",
			i+1, f.ID, f.Title, f.Kind, flagList(f), st.IsNavigable(i))
	}
	_ = tw.Flush()
}

func flagList(f wizard.StepFlags) string {
	var flags string
	add := func(on bool, name string) {
		if !on {
			return
		}
		if flags != "" {
			flags += ","
		}
		flags += name
	}
	add(f.Selected, "selected")
	add(f.Completed, "completed")
	add(f.Editing, "editing")
	add(f.Optional, "optional")
	if flags == "" {
		return "-"
	}
	return flags
}
