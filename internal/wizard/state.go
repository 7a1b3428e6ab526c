package wizard

import (
	"context"
	"sync"

	"go.uber.org/atomic"
)

// State is the wizard aggregate: the ordered steps, the current step and the
// active navigation mode. It owns no presentation.
//
// The current step is tracked by identity, so replacing the step sequence never
// silently moves the user to a different step. Positional indices are derived
// on demand.
type State struct {
	mu                   sync.RWMutex
	steps                []*Step
	current              *Step
	defaultIndex         int
	mode                 NavigationMode
	disableNavigationBar bool

	// navigating is set while a navigation or reset owns the State.
	navigating *atomic.Bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithNavigationMode sets the initial navigation mode.
func WithNavigationMode(mode NavigationMode) StateOption {
	return func(st *State) { st.mode = mode }
}

// WithDefaultStepIndex sets the fallback default index used when no step is
// flagged DefaultSelected.
func WithDefaultStepIndex(index int) StateOption {
	return func(st *State) { st.defaultIndex = index }
}

// WithNavigationBarDisabled disables navigation bar links.
func WithNavigationBarDisabled() StateOption {
	return func(st *State) { st.disableNavigationBar = true }
}

// NewState creates a wizard over steps. No step is selected until the
// navigation mode's Reset is called.
func NewState(steps []*Step, opts ...StateOption) *State {
	st := &State{
		steps:      append([]*Step(nil), steps...),
		navigating: atomic.NewBool(false),
	}
	for _, opt := range opts {
		opt(st)
	}
	if st.mode == nil {
		st.mode = NewNavigationMode(ConfigurableNavigationMode{})
	}
	return st
}

// Steps returns a copy of the step sequence.
func (st *State) Steps() []*Step {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return append([]*Step(nil), st.steps...)
}

// Len returns the number of steps.
func (st *State) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.steps)
}

// UpdateSteps replaces the step sequence. The current step is re-resolved by
// identity; if it was removed the wizard has no current step until the next
// reset.
func (st *State) UpdateSteps(steps []*Step) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.steps = append([]*Step(nil), steps...)
	if st.current != nil && indexOf(st.steps, st.current) < 0 {
		st.current = nil
	}
}

// CurrentStepIndex returns the index of the current step, or -1.
func (st *State) CurrentStepIndex() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	if st.current == nil {
		return -1
	}
	return indexOf(st.steps, st.current)
}

// CurrentStep returns the current step, or nil.
func (st *State) CurrentStep() *Step {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.current
}

// SetCurrentStepIndex moves the current step without evaluating guards or
// applying policy side effects. Intended for bootstrapping and tests. The
// selection flag follows the move.
func (st *State) SetCurrentStepIndex(index int) error {
	step, err := st.StepAtIndex(index)
	if err != nil {
		return err
	}
	if previous := st.CurrentStep(); previous != nil {
		previous.setSelected(false)
	}
	st.setCurrent(step)
	step.setSelected(true)
	return nil
}

// Restore marks the steps at completed as completed and makes current the
// current step, without evaluating guards. It is meant for resuming persisted
// progress on a freshly reset wizard. Nothing changes if any index is unknown.
func (st *State) Restore(current int, completed []int) error {
	if !st.navigating.CompareAndSwap(false, true) {
		return ErrNavigationInProgress
	}
	defer st.navigating.Store(false)

	target, err := st.StepAtIndex(current)
	if err != nil {
		return err
	}
	done := make([]*Step, 0, len(completed))
	for _, i := range completed {
		s, err := st.StepAtIndex(i)
		if err != nil {
			return err
		}
		done = append(done, s)
	}

	for _, s := range done {
		s.setCompleted(true)
	}
	if previous := st.CurrentStep(); previous != nil {
		previous.setSelected(false)
	}
	st.setCurrent(target)
	target.setSelected(true)
	return nil
}

func (st *State) setCurrent(step *Step) {
	st.mu.Lock()
	st.current = step
	st.mu.Unlock()
}

// DefaultStepIndex returns the index of the step flagged DefaultSelected, or
// the stored fallback index.
func (st *State) DefaultStepIndex() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	for i, s := range st.steps {
		if s.defaultSelected {
			return i
		}
	}
	return st.defaultIndex
}

// SetDefaultStepIndex sets the fallback default index.
func (st *State) SetDefaultStepIndex(index int) {
	st.mu.Lock()
	st.defaultIndex = index
	st.mu.Unlock()
}

// NavigationMode returns the active navigation mode.
func (st *State) NavigationMode() NavigationMode {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.mode
}

// SetNavigationMode replaces the navigation mode. Flags are left as they are;
// callers usually Reset afterwards.
func (st *State) SetNavigationMode(mode NavigationMode) {
	st.mu.Lock()
	st.mode = mode
	st.mu.Unlock()
}

// NavigationBarDisabled reports whether navigation bar links are disabled.
func (st *State) NavigationBarDisabled() bool {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.disableNavigationBar
}

// SetNavigationBarDisabled toggles navigation bar links.
func (st *State) SetNavigationBarDisabled(disabled bool) {
	st.mu.Lock()
	st.disableNavigationBar = disabled
	st.mu.Unlock()
}

// Navigating reports whether a navigation is evaluating guards right now.
func (st *State) Navigating() bool {
	return st.navigating.Load()
}

// HasStep reports whether index references a step.
func (st *State) HasStep(index int) bool {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return index >= 0 && index < len(st.steps)
}

// HasPreviousStep reports whether a step precedes the current one.
func (st *State) HasPreviousStep() bool {
	return st.CurrentStepIndex() > 0
}

// HasNextStep reports whether a step follows the current one.
func (st *State) HasNextStep() bool {
	current := st.CurrentStepIndex()
	return current >= 0 && current < st.Len()-1
}

// StepAtIndex returns the step at index.
func (st *State) StepAtIndex(index int) (*Step, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	if index < 0 || index >= len(st.steps) {
		return nil, &UnknownStepIndexError{Index: index, Count: len(st.steps)}
	}
	return st.steps[index], nil
}

// IndexOfStepWithID returns the index of the step with the given id.
func (st *State) IndexOfStepWithID(id string) (int, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	if id != "" {
		for i, s := range st.steps {
			if s.id == id {
				return i, nil
			}
		}
	}
	return -1, &UnknownStepIDError{ID: id}
}

// IndexOf returns the index of step, or -1.
func (st *State) IndexOf(step *Step) int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return indexOf(st.steps, step)
}

// MovingDirection returns the direction of a move from the current step to destination.
func (st *State) MovingDirection(destination int) MovingDirection {
	return movingDirection(st.CurrentStepIndex(), destination)
}

// Completed reports whether every step is completed or optional.
func (st *State) Completed() bool {
	for _, s := range st.Steps() {
		if !s.satisfied(false) {
			return false
		}
	}
	return true
}

// Convenience wrappers delegating to the active navigation mode.

// CanGoToStep delegates to NavigationMode.CanGoToStep.
func (st *State) CanGoToStep(ctx context.Context, destination int) (bool, error) {
	return st.NavigationMode().CanGoToStep(ctx, st, destination)
}

// GoToStep delegates to NavigationMode.GoToStep.
func (st *State) GoToStep(ctx context.Context, destination int, opts ...GoOption) error {
	return st.NavigationMode().GoToStep(ctx, st, destination, opts...)
}

// GoToNextStep delegates to NavigationMode.GoToNextStep.
func (st *State) GoToNextStep(ctx context.Context, opts ...GoOption) error {
	return st.NavigationMode().GoToNextStep(ctx, st, opts...)
}

// GoToPreviousStep delegates to NavigationMode.GoToPreviousStep.
func (st *State) GoToPreviousStep(ctx context.Context, opts ...GoOption) error {
	return st.NavigationMode().GoToPreviousStep(ctx, st, opts...)
}

// IsNavigable delegates to NavigationMode.IsNavigable.
func (st *State) IsNavigable(destination int) bool {
	return st.NavigationMode().IsNavigable(st, destination)
}

// Reset delegates to NavigationMode.Reset.
func (st *State) Reset() error {
	return st.NavigationMode().Reset(st)
}

// Snapshot is an immutable copy of the wizard's observable state.
type Snapshot struct {
	Mode         string      `json:"mode"`
	CurrentIndex int         `json:"current_index"`
	DefaultIndex int         `json:"default_index"`
	Completed    bool        `json:"completed"`
	Steps        []StepFlags `json:"steps"`
}

// Snapshot copies the current flags of every step.
func (st *State) Snapshot() Snapshot {
	steps := st.Steps()
	snap := Snapshot{
		CurrentIndex: st.CurrentStepIndex(),
		DefaultIndex: st.DefaultStepIndex(),
		Completed:    st.Completed(),
		Steps:        make([]StepFlags, len(steps)),
	}
	if mode := st.NavigationMode(); mode != nil {
		snap.Mode = mode.Name()
	}
	for i, s := range steps {
		snap.Steps[i] = s.Flags()
	}
	return snap
}

func indexOf(steps []*Step, step *Step) int {
	for i, s := range steps {
		if s == step {
			return i
		}
	}
	return -1
}
