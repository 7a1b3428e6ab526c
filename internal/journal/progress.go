package journal

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/stepwise/internal/logger"
	"github.com/mark3labs/stepwise/internal/nats"
	"github.com/mark3labs/stepwise/internal/wizard"
)

// Progress is the latest known position of a wizard, reduced from its events.
type Progress struct {
	Wizard         string    `json:"wizard"`
	LastRunID      string    `json:"last_run_id"`
	Runs           int       `json:"runs"`
	CurrentStep    string    `json:"current_step"`
	CompletedSteps []string  `json:"completed_steps"`
	Transitions    int       `json:"transitions"`
	Refused        int       `json:"refused"`
	Resets         int       `json:"resets"`
	Completed      bool      `json:"completed"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// HasPosition reports whether any event recorded a current step.
func (p *Progress) HasPosition() bool {
	return p.CurrentStep != ""
}

// reduce folds one event into the progress.
func (p *Progress) reduce(event Event) {
	var meta stateMeta
	if len(event.Meta) > 0 {
		if err := json.Unmarshal(event.Meta, &meta); err != nil {
			logger.Warn("Ignoring event %s with malformed meta: %v", event.ID, err)
			return
		}
	}

	switch event.Type {
	case nats.EventTypeNavigation:
		switch event.Action {
		case ActionGoTo:
			p.Transitions++
			p.position(meta)
		case ActionRefused:
			p.Refused++
		}
	case nats.EventTypeControl:
		switch event.Action {
		case ActionStart:
			p.Runs++
			p.LastRunID = event.Run
		case ActionReset:
			p.Resets++
			p.position(meta)
		}
	}
	if event.Run != "" {
		p.LastRunID = event.Run
	}
	if event.Timestamp.After(p.UpdatedAt) {
		p.UpdatedAt = event.Timestamp
	}
}

func (p *Progress) position(meta stateMeta) {
	p.CurrentStep = meta.CurrentStep
	p.CompletedSteps = append([]string{}, meta.CompletedSteps...)
	p.Completed = meta.Completed
}

// Apply restores completed flags and the current step on a reset wizard.
// Completed steps missing from the wizard are skipped. A missing current step
// is an error and leaves the wizard untouched.
func (p *Progress) Apply(st *wizard.State) error {
	if !p.HasPosition() {
		return nil
	}

	current, err := st.IndexOfStepWithID(p.CurrentStep)
	if err != nil {
		return fmt.Errorf("resuming %s: %w", p.Wizard, err)
	}

	completed := make([]int, 0, len(p.CompletedSteps))
	for _, id := range p.CompletedSteps {
		idx, err := st.IndexOfStepWithID(id)
		if err != nil {
			logger.Warn("Resuming %s: skipping completed step %q no longer in the wizard", p.Wizard, id)
			continue
		}
		completed = append(completed, idx)
	}

	if err := st.Restore(current, completed); err != nil {
		return fmt.Errorf("resuming %s: %w", p.Wizard, err)
	}
	logger.Info("Resumed %s at step %q with %d completed steps", p.Wizard, p.CurrentStep, len(completed))
	return nil
}
