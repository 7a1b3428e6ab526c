package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/mark3labs/stepwise/internal/config"
	"github.com/mark3labs/stepwise/internal/definition"
	"github.com/mark3labs/stepwise/internal/hooks"
	"github.com/mark3labs/stepwise/internal/journal"
	"github.com/mark3labs/stepwise/internal/wizard"
)

// loadedWizard is a parsed definition together with its built state.
type loadedWizard struct {
	def    *definition.Definition
	state  *wizard.State
	hooks  *hooks.Runner
	hookWD string
}

// loadWizard reads a definition, fills navigation defaults from config,
// validates, builds and resets it. Commands run relative to the file and are
// cancelled with ctx.
func loadWizard(ctx context.Context, path string, c *config.Config, modeOverride string) (*loadedWizard, error) {
	def, err := definition.Load(path)
	if err != nil {
		return nil, err
	}
	if modeOverride != "" {
		def.Navigation.Mode = modeOverride
	}
	def.InheritNavigation(definition.Navigation{
		Mode:             c.NavigationMode,
		NavigateBackward: c.NavigateBackward,
		NavigateForward:  c.NavigateForward,
	})
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("invalid wizard %s: %w", path, err)
	}

	workDir := filepath.Dir(path)
	runner := hooks.NewRunner(workDir, c.HookTimeout)
	st, err := definition.Build(ctx, def, runner)
	if err != nil {
		return nil, err
	}
	if err := st.Reset(); err != nil {
		return nil, fmt.Errorf("resetting %s: %w", def.Name, err)
	}

	return &loadedWizard{def: def, state: st, hooks: runner, hookWD: workDir}, nil
}

// openJournal opens the journal when enabled. A nil journal means journaling
// is off.
func openJournal(ctx context.Context, c *config.Config) (*journal.Journal, error) {
	if !c.Journal {
		return nil, nil
	}
	j, err := journal.Open(ctx, c.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}
	return j, nil
}
