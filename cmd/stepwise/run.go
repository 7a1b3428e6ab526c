package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/stepwise/internal/hooks"
	"github.com/mark3labs/stepwise/internal/journal"
	"github.com/mark3labs/stepwise/internal/logger"
	"github.com/mark3labs/stepwise/internal/tui"
	"github.com/spf13/cobra"
)

var runFlags struct {
	resume bool
	mode   string
}

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Run a wizard in the terminal",
	Long: `Run a wizard definition in a full-screen terminal runner.

Navigation is recorded in the journal under the data directory unless
journaling is disabled. Use --resume to continue from the last recorded
position. Wizard-wide hooks are read from .stepwise.hooks.yml next to the
definition.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVarP(&runFlags.resume, "resume", "r", false, "Resume from the last recorded position")
	runCmd.Flags().StringVarP(&runFlags.mode, "mode", "m", "", "Override the navigation mode (free, strict, semi-strict, configurable)")
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := loadWizard(ctx, args[0], cfg, runFlags.mode)
	if err != nil {
		return err
	}

	hooksCfg, err := hooks.LoadConfig(w.hookWD)
	if err != nil {
		return err
	}

	j, err := openJournal(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = j.Close() }()

	opts := tui.Options{
		WizardName:  w.def.Name,
		RunID:       journal.NewRunID(),
		Hooks:       w.hooks,
		HooksConfig: hooksCfg,
	}

	if j != nil {
		if runFlags.resume {
			progress, err := j.LoadProgress(ctx, w.def.Name)
			if err != nil {
				return fmt.Errorf("loading progress: %w", err)
			}
			if err := progress.Apply(w.state); err != nil {
				return err
			}
		}
		if err := j.RecordStart(ctx, w.def.Name, opts.RunID, w.state.Snapshot()); err != nil {
			logger.Warn("Failed to record start of %s: %v", w.def.Name, err)
		}
		opts.Recorder = j
	} else if runFlags.resume {
		return fmt.Errorf("--resume needs the journal, which is disabled in config")
	}

	logger.Info("Running %s (run %s)", w.def.Name, opts.RunID)
	return tui.Run(ctx, w.state, opts)
}
