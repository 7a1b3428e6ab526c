package wizard

// StrictNavigationMode only moves forward over completed or optional steps,
// allows navigation bar links to earlier steps only, and discards progress
// after the destination whenever the user goes back.
type StrictNavigationMode struct{}

// Name implements Policy.
func (StrictNavigationMode) Name() string { return "strict" }

// CanTransitionToStep implements Policy.
func (StrictNavigationMode) CanTransitionToStep(st *State, destination int) bool {
	return PreviousStepsCompleted(st, destination)
}

// IsNavigable implements Policy.
func (StrictNavigationMode) IsNavigable(st *State, destination int) bool {
	return destination < st.CurrentStepIndex()
}

// Transition implements Policy.
func (StrictNavigationMode) Transition(st *State, from, destination int) {
	invalidateForward(st, from, destination)
}

// EnsureCanReset implements Policy. Every step before the default one must be
// optional, since the user could never have completed it.
func (m StrictNavigationMode) EnsureCanReset(st *State, defaultIndex int) error {
	for i, s := range st.Steps() {
		if i >= defaultIndex {
			break
		}
		if !s.IsOptional() {
			return &IllegalDefaultStepPolicyError{
				Mode:   m.Name(),
				Index:  defaultIndex,
				Reason: "it is located after a non optional step",
			}
		}
	}
	return nil
}
