package wizard

// MovingDirection describes a transition relative to the current step.
type MovingDirection int

const (
	// Forwards moves to a step with a higher index.
	Forwards MovingDirection = iota
	// Backwards moves to a step with a lower index.
	Backwards
	// Stay re-enters the current step.
	Stay
)

// String returns the lowercase name used in logs, hook variables and journal events.
func (d MovingDirection) String() string {
	switch d {
	case Forwards:
		return "forwards"
	case Backwards:
		return "backwards"
	case Stay:
		return "stay"
	default:
		return "unknown"
	}
}

// movingDirection compares a destination index with the current index.
func movingDirection(current, destination int) MovingDirection {
	switch {
	case destination > current:
		return Forwards
	case destination < current:
		return Backwards
	default:
		return Stay
	}
}
