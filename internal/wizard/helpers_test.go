package wizard

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lifecycleRecorder collects enter/exit callbacks as "enter:<title>:<direction>".
type lifecycleRecorder struct {
	events []string
}

func (r *lifecycleRecorder) options() []StepOption {
	return []StepOption{
		OnEnter(func(s *Step, d MovingDirection) {
			r.events = append(r.events, fmt.Sprintf("enter:%s:%s", s.Title(), d))
		}),
		OnExit(func(s *Step, d MovingDirection) {
			r.events = append(r.events, fmt.Sprintf("exit:%s:%s", s.Title(), d))
		}),
	}
}

func (r *lifecycleRecorder) reset() {
	r.events = nil
}

// standardSteps creates n steps titled A, B, C... with ids a, b, c...
func standardSteps(n int, opts ...StepOption) []*Step {
	steps := make([]*Step, n)
	for i := range steps {
		title := string(rune('A' + i))
		id := string(rune('a' + i))
		steps[i] = NewStep(title, append([]StepOption{WithID(id)}, opts...)...)
	}
	return steps
}

// newTestState builds a reset wizard over steps with the given policy.
func newTestState(t *testing.T, policy Policy, steps ...*Step) *State {
	t.Helper()
	st := NewState(steps, WithNavigationMode(NewNavigationMode(policy)))
	require.NoError(t, st.Reset())
	return st
}

// goTo navigates and fails the test on error.
func goTo(t *testing.T, st *State, destination int) {
	t.Helper()
	require.NoError(t, st.GoToStep(context.Background(), destination))
}

func completedFlags(st *State) []bool {
	steps := st.Steps()
	out := make([]bool, len(steps))
	for i, s := range steps {
		out[i] = s.Completed()
	}
	return out
}

// assertInvariants checks the single-selection and completion aggregate invariants.
func assertInvariants(t *testing.T, st *State) {
	t.Helper()

	steps := st.Steps()
	selected := 0
	allDone := true
	for _, s := range steps {
		if s.Selected() {
			selected++
		}
		if !s.Completed() && !s.IsOptional() {
			allDone = false
		}
		assert.Equal(t, s.Selected() && s.Completed(), s.Editing(), "editing is derived for %s", s.Title())
	}

	if len(steps) > 0 {
		assert.Equal(t, 1, selected, "exactly one step must be selected")
		current := st.CurrentStepIndex()
		require.GreaterOrEqual(t, current, 0)
		assert.Same(t, steps[current], st.CurrentStep())
		assert.True(t, steps[current].Selected())
	}
	assert.Equal(t, allDone, st.Completed())
}
