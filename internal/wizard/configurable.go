package wizard

import "fmt"

// BackwardPolicy governs navigation bar links to steps before the current one.
type BackwardPolicy string

const (
	BackwardAllow BackwardPolicy = "allow"
	BackwardDeny  BackwardPolicy = "deny"
)

// ForwardPolicy governs navigation bar links to steps after the current one.
type ForwardPolicy string

const (
	ForwardDeny    ForwardPolicy = "deny"
	ForwardAllow   ForwardPolicy = "allow"
	ForwardVisited ForwardPolicy = "visited" // only steps already completed
)

// ParseBackwardPolicy validates a backward axis value; empty means allow.
func ParseBackwardPolicy(s string) (BackwardPolicy, error) {
	switch BackwardPolicy(s) {
	case "", BackwardAllow:
		return BackwardAllow, nil
	case BackwardDeny:
		return BackwardDeny, nil
	default:
		return "", fmt.Errorf("invalid navigate_backward value %q (want allow or deny)", s)
	}
}

// ParseForwardPolicy validates a forward axis value; empty means deny.
func ParseForwardPolicy(s string) (ForwardPolicy, error) {
	switch ForwardPolicy(s) {
	case "", ForwardDeny:
		return ForwardDeny, nil
	case ForwardAllow:
		return ForwardAllow, nil
	case ForwardVisited:
		return ForwardVisited, nil
	default:
		return "", fmt.Errorf("invalid navigate_forward value %q (want deny, allow or visited)", s)
	}
}

// ConfigurableNavigationMode is the default policy. The zero value allows
// backward links and denies forward links.
type ConfigurableNavigationMode struct {
	NavigateBackward BackwardPolicy
	NavigateForward  ForwardPolicy
}

func (m ConfigurableNavigationMode) backward() BackwardPolicy {
	if m.NavigateBackward == "" {
		return BackwardAllow
	}
	return m.NavigateBackward
}

func (m ConfigurableNavigationMode) forward() ForwardPolicy {
	if m.NavigateForward == "" {
		return ForwardDeny
	}
	return m.NavigateForward
}

// Name implements Policy.
func (ConfigurableNavigationMode) Name() string { return "configurable" }

// CanTransitionToStep implements Policy. Anything reachable through the
// navigation bar is reachable directly; otherwise the baseline rule applies.
func (m ConfigurableNavigationMode) CanTransitionToStep(st *State, destination int) bool {
	if m.IsNavigable(st, destination) {
		return true
	}
	return PreviousStepsCompleted(st, destination)
}

// IsNavigable implements Policy.
func (m ConfigurableNavigationMode) IsNavigable(st *State, destination int) bool {
	target, err := st.StepAtIndex(destination)
	if err != nil {
		return false
	}
	if target.IsCompletionStep() && !PreviousStepsCompletedOrSelected(st, destination) {
		return false
	}

	current := st.CurrentStepIndex()
	switch {
	case destination < current:
		return m.backward() == BackwardAllow
	case destination > current:
		switch m.forward() {
		case ForwardAllow:
			return true
		case ForwardVisited:
			return target.Completed()
		default:
			return false
		}
	default:
		return false
	}
}

// Transition implements Policy. Going back discards later progress only when
// forward links are denied; otherwise visited steps stay reachable.
func (m ConfigurableNavigationMode) Transition(st *State, from, destination int) {
	if m.forward() == ForwardDeny {
		invalidateForward(st, from, destination)
	}
}

// EnsureCanReset implements Policy.
func (m ConfigurableNavigationMode) EnsureCanReset(st *State, defaultIndex int) error {
	return ensureDefaultNotCompletion(m.Name(), st, defaultIndex)
}
