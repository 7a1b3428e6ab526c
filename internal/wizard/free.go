package wizard

// FreeNavigationMode lets the navigation bar reach any step. Directive
// navigation still follows the baseline ordering rule and the step guards.
type FreeNavigationMode struct{}

// Name implements Policy.
func (FreeNavigationMode) Name() string { return "free" }

// CanTransitionToStep implements Policy.
func (FreeNavigationMode) CanTransitionToStep(st *State, destination int) bool {
	return PreviousStepsCompleted(st, destination)
}

// IsNavigable implements Policy.
func (FreeNavigationMode) IsNavigable(*State, int) bool { return true }

// Transition implements Policy. Free navigation keeps all progress.
func (FreeNavigationMode) Transition(*State, int, int) {}

// EnsureCanReset implements Policy.
func (FreeNavigationMode) EnsureCanReset(*State, int) error { return nil }
