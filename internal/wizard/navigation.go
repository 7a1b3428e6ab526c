package wizard

import (
	"context"
	"fmt"

	"github.com/mark3labs/stepwise/internal/logger"
)

// NavigationMode decides which transitions are permitted and performs them.
type NavigationMode interface {
	// Name identifies the mode ("free", "strict", "semi-strict", "configurable").
	Name() string

	// CanGoToStep evaluates the policy and the exit/enter guards without
	// mutating the wizard.
	CanGoToStep(ctx context.Context, st *State, destination int) (bool, error)

	// GoToStep performs the transition if permitted. A refused transition
	// re-enters the current step with Stay and returns nil; guard errors are
	// returned and leave the wizard untouched.
	GoToStep(ctx context.Context, st *State, destination int, opts ...GoOption) error

	// GoToPreviousStep moves one step back; a no-op on the first step.
	GoToPreviousStep(ctx context.Context, st *State, opts ...GoOption) error

	// GoToNextStep moves one step forward; a no-op on the last step.
	GoToNextStep(ctx context.Context, st *State, opts ...GoOption) error

	// IsNavigable reports, without evaluating guards, whether a navigation bar
	// link to destination should be clickable.
	IsNavigable(st *State, destination int) bool

	// Reset restores initial completion, clears selection and enters the
	// default step.
	Reset(st *State) error
}

// Policy holds the extension points a navigation mode customizes. The shared
// transition algorithm lives in Navigator.
type Policy interface {
	Name() string

	// CanTransitionToStep is the ordering rule checked before any guard.
	CanTransitionToStep(st *State, destination int) bool

	// IsNavigable is the navigation bar rule.
	IsNavigable(st *State, destination int) bool

	// Transition applies side effects on other steps while moving from one
	// index to another. It runs after the source step was exited and before
	// the destination is entered.
	Transition(st *State, from, destination int)

	// EnsureCanReset validates policy preconditions on the default step.
	EnsureCanReset(st *State, defaultIndex int) error
}

// Transition describes one navigation request as seen by finalize hooks.
type Transition struct {
	From      int             `json:"from"`
	To        int             `json:"to"`
	Direction MovingDirection `json:"direction"`
	Refused   bool            `json:"refused"`
}

// FinalizeFunc observes a transition immediately before or after it mutates
// the wizard.
type FinalizeFunc func(Transition)

type goOptions struct {
	preFinalize  FinalizeFunc
	postFinalize FinalizeFunc
}

// GoOption configures a single navigation call.
type GoOption func(*goOptions)

// PreFinalize runs fn before the transition mutates the wizard, including
// refused transitions.
func PreFinalize(fn FinalizeFunc) GoOption {
	return func(o *goOptions) { o.preFinalize = fn }
}

// PostFinalize runs fn after the transition mutated the wizard, including
// refused transitions.
func PostFinalize(fn FinalizeFunc) GoOption {
	return func(o *goOptions) { o.postFinalize = fn }
}

// Navigator implements NavigationMode on top of a Policy.
type Navigator struct {
	policy Policy
}

// NewNavigationMode builds a navigation mode from a policy.
func NewNavigationMode(policy Policy) *Navigator {
	return &Navigator{policy: policy}
}

// Name returns the policy name.
func (n *Navigator) Name() string {
	return n.policy.Name()
}

// Policy returns the underlying policy.
func (n *Navigator) Policy() Policy {
	return n.policy
}

// CanGoToStep implements NavigationMode.
func (n *Navigator) CanGoToStep(ctx context.Context, st *State, destination int) (bool, error) {
	target, err := st.StepAtIndex(destination)
	if err != nil {
		return false, nil
	}
	return n.canGoTo(ctx, st, st.CurrentStep(), target, destination)
}

func (n *Navigator) canGoTo(ctx context.Context, st *State, current, target *Step, destination int) (bool, error) {
	if !n.policy.CanTransitionToStep(st, destination) {
		return false, nil
	}

	direction := st.MovingDirection(destination)
	if current != nil {
		ok, err := current.CanExitStep(ctx, direction)
		if err != nil || !ok {
			return false, err
		}
	}
	return target.CanEnterStep(ctx, direction)
}

// GoToStep implements NavigationMode.
func (n *Navigator) GoToStep(ctx context.Context, st *State, destination int, opts ...GoOption) error {
	if !st.navigating.CompareAndSwap(false, true) {
		return ErrNavigationInProgress
	}
	defer st.navigating.Store(false)

	var o goOptions
	for _, opt := range opts {
		opt(&o)
	}

	current := st.CurrentStep()
	if current == nil {
		return fmt.Errorf("go to step %d: wizard has no current step: %w",
			destination, &UnknownStepIndexError{Index: -1, Count: st.Len()})
	}
	from := st.IndexOf(current)
	direction := movingDirection(from, destination)
	t := Transition{From: from, To: destination, Direction: direction}

	allowed := false
	target, err := st.StepAtIndex(destination)
	if err == nil {
		allowed, err = n.canGoTo(ctx, st, current, target, destination)
		if err != nil {
			logger.Warn("Guard evaluation failed for %s transition %d -> %d: %v", n.Name(), from, destination, err)
			return fmt.Errorf("go to step %d: %w", destination, err)
		}
	}

	if !allowed || direction == Stay {
		t.Refused = !allowed
		if t.Refused {
			logger.Debug("%s navigation refused transition %d -> %d", n.Name(), from, destination)
		}
		n.settle(current, t, o)
		return nil
	}

	// The step sequence may have been replaced while guards were pending.
	// Positions are resolved again by identity.
	from, to := st.IndexOf(current), st.IndexOf(target)
	if from < 0 || to < 0 {
		return fmt.Errorf("go to step %d: step sequence changed during navigation: %w",
			destination, &UnknownStepIndexError{Index: destination, Count: st.Len()})
	}
	direction = movingDirection(from, to)
	t = Transition{From: from, To: to, Direction: direction}

	if o.preFinalize != nil {
		o.preFinalize(t)
	}

	current.setCompleted(true)
	current.Exit(direction)
	current.setSelected(false)

	n.policy.Transition(st, from, to)

	st.setCurrent(target)
	target.setSelected(true)
	target.Enter(direction)

	logger.Debug("%s navigation moved %s from step %d to %d", n.Name(), direction, from, to)

	if o.postFinalize != nil {
		o.postFinalize(t)
	}
	return nil
}

// settle re-enters the current step without moving.
func (n *Navigator) settle(current *Step, t Transition, o goOptions) {
	if o.preFinalize != nil {
		o.preFinalize(t)
	}
	current.Exit(Stay)
	current.Enter(Stay)
	if o.postFinalize != nil {
		o.postFinalize(t)
	}
}

// GoToPreviousStep implements NavigationMode.
func (n *Navigator) GoToPreviousStep(ctx context.Context, st *State, opts ...GoOption) error {
	if !st.HasPreviousStep() {
		return nil
	}
	return n.GoToStep(ctx, st, st.CurrentStepIndex()-1, opts...)
}

// GoToNextStep implements NavigationMode.
func (n *Navigator) GoToNextStep(ctx context.Context, st *State, opts ...GoOption) error {
	if !st.HasNextStep() {
		return nil
	}
	return n.GoToStep(ctx, st, st.CurrentStepIndex()+1, opts...)
}

// IsNavigable implements NavigationMode.
func (n *Navigator) IsNavigable(st *State, destination int) bool {
	if !st.HasStep(destination) {
		return false
	}
	return n.policy.IsNavigable(st, destination)
}

// Reset implements NavigationMode. Preconditions are checked before any flag
// changes, so a failed reset leaves the wizard untouched.
func (n *Navigator) Reset(st *State) error {
	if !st.navigating.CompareAndSwap(false, true) {
		return ErrNavigationInProgress
	}
	defer st.navigating.Store(false)

	defaultIndex := st.DefaultStepIndex()
	target, err := st.StepAtIndex(defaultIndex)
	if err != nil {
		return &InvalidDefaultStepError{Index: defaultIndex, Count: st.Len()}
	}
	if err := n.policy.EnsureCanReset(st, defaultIndex); err != nil {
		logger.Warn("Reset rejected by %s navigation: %v", n.Name(), err)
		return err
	}

	for _, s := range st.Steps() {
		s.setCompleted(s.initiallyCompleted)
		s.setSelected(false)
	}
	st.setCurrent(target)
	target.setSelected(true)
	target.Enter(Forwards)

	logger.Debug("%s navigation reset to step %d", n.Name(), defaultIndex)
	return nil
}

// PreviousStepsCompleted is the baseline ordering rule: every step before
// destination, other than the current one, is completed or optional.
func PreviousStepsCompleted(st *State, destination int) bool {
	current := st.CurrentStep()
	for i, s := range st.Steps() {
		if i >= destination {
			break
		}
		if s == current {
			continue
		}
		if !s.satisfied(false) {
			return false
		}
	}
	return true
}

// PreviousStepsCompletedOrSelected reports whether every step before
// destination is completed, optional or selected. Completion steps use it.
func PreviousStepsCompletedOrSelected(st *State, destination int) bool {
	for i, s := range st.Steps() {
		if i >= destination {
			break
		}
		if !s.satisfied(true) {
			return false
		}
	}
	return true
}

// invalidateForward clears completion after destination when moving backwards.
func invalidateForward(st *State, from, destination int) {
	if from <= destination {
		return
	}
	for i, s := range st.Steps() {
		if i > destination {
			s.setCompleted(false)
		}
	}
}

// isCompletionStep reports whether index references a completion step.
func isCompletionStep(st *State, index int) bool {
	s, err := st.StepAtIndex(index)
	return err == nil && s.IsCompletionStep()
}
