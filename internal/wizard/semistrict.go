package wizard

// SemiStrictNavigationMode behaves like strict navigation for ordinary steps,
// but a completion step may be entered while the step before it is still
// selected and not yet completed.
type SemiStrictNavigationMode struct{}

// Name implements Policy.
func (SemiStrictNavigationMode) Name() string { return "semi-strict" }

// CanTransitionToStep implements Policy.
func (SemiStrictNavigationMode) CanTransitionToStep(st *State, destination int) bool {
	if isCompletionStep(st, destination) {
		return PreviousStepsCompletedOrSelected(st, destination)
	}
	return PreviousStepsCompleted(st, destination)
}

// IsNavigable implements Policy. Ordinary steps are linked backwards only,
// like strict navigation; a completion step is linked once every step before
// it is completed, optional or selected.
func (SemiStrictNavigationMode) IsNavigable(st *State, destination int) bool {
	current := st.CurrentStepIndex()
	if isCompletionStep(st, destination) {
		return destination != current && PreviousStepsCompletedOrSelected(st, destination)
	}
	return destination < current
}

// Transition implements Policy.
func (SemiStrictNavigationMode) Transition(st *State, from, destination int) {
	invalidateForward(st, from, destination)
}

// EnsureCanReset implements Policy.
func (m SemiStrictNavigationMode) EnsureCanReset(st *State, defaultIndex int) error {
	return ensureDefaultNotCompletion(m.Name(), st, defaultIndex)
}

// ensureDefaultNotCompletion rejects starting a multi-step wizard on its
// completion step.
func ensureDefaultNotCompletion(mode string, st *State, defaultIndex int) error {
	if isCompletionStep(st, defaultIndex) && st.Len() != 1 {
		return &IllegalDefaultStepPolicyError{
			Mode:   mode,
			Index:  defaultIndex,
			Reason: "it references a completion step",
		}
	}
	return nil
}
