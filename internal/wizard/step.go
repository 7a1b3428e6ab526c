package wizard

import (
	"context"
	"fmt"
	"sync"
)

// Kind tags the step variants the navigation policies care about.
type Kind int

const (
	// KindStandard is an ordinary content step.
	KindStandard Kind = iota
	// KindCompletion marks itself completed when entered and, by default,
	// cannot be exited.
	KindCompletion
)

// String returns the kind name.
func (k Kind) String() string {
	if k == KindCompletion {
		return "completion"
	}
	return "standard"
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name. Empty text is a standard step.
func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "", "standard":
		*k = KindStandard
	case "completion":
		*k = KindCompletion
	default:
		return fmt.Errorf("unknown step kind %q", text)
	}
	return nil
}

// StepFunc is a lifecycle callback invoked with the moving direction.
type StepFunc func(step *Step, direction MovingDirection)

// Step is one page of a wizard.
//
// Display fields and guards are fixed at construction. Lifecycle flags are
// mutated by the navigation modes only and are safe to read concurrently.
type Step struct {
	id       string
	title    string
	symbol   string
	body     string
	kind     Kind
	optional bool

	initiallyCompleted bool
	defaultSelected    bool

	canEnter GuardFunc
	canExit  GuardFunc
	onEnter  []StepFunc
	onExit   []StepFunc

	mu        sync.RWMutex
	selected  bool
	completed bool
}

// StepOption configures a Step.
type StepOption func(*Step)

// WithID sets the stable step identifier.
func WithID(id string) StepOption {
	return func(s *Step) { s.id = id }
}

// WithSymbol sets the navigation bar symbol.
func WithSymbol(symbol string) StepOption {
	return func(s *Step) { s.symbol = symbol }
}

// WithBody sets the markdown body shown by step renderers.
func WithBody(body string) StepOption {
	return func(s *Step) { s.body = body }
}

// Optional marks the step as not blocking ordering rules.
func Optional() StepOption {
	return func(s *Step) { s.optional = true }
}

// InitiallyCompleted marks the step completed at construction and on every reset.
func InitiallyCompleted() StepOption {
	return func(s *Step) {
		s.initiallyCompleted = true
		s.completed = true
	}
}

// DefaultSelected makes the step the one entered on reset.
func DefaultSelected() StepOption {
	return func(s *Step) { s.defaultSelected = true }
}

// CanEnter sets the enter guard. See NormalizeGuard for accepted values.
func CanEnter(guard any) StepOption {
	return func(s *Step) { s.canEnter = NormalizeGuard(guard) }
}

// CanExit sets the exit guard. See NormalizeGuard for accepted values.
func CanExit(guard any) StepOption {
	return func(s *Step) { s.canExit = NormalizeGuard(guard) }
}

// OnEnter registers a callback run every time the step is entered.
func OnEnter(fn StepFunc) StepOption {
	return func(s *Step) { s.onEnter = append(s.onEnter, fn) }
}

// OnExit registers a callback run every time the step is exited.
func OnExit(fn StepFunc) StepOption {
	return func(s *Step) { s.onExit = append(s.onExit, fn) }
}

// NewStep creates a standard step.
func NewStep(title string, opts ...StepOption) *Step {
	s := &Step{
		title:    title,
		kind:     KindStandard,
		canEnter: NormalizeGuard(true),
		canExit:  NormalizeGuard(true),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewCompletionStep creates a completion step. Its exit guard defaults to false;
// pass CanExit to allow leaving it.
func NewCompletionStep(title string, opts ...StepOption) *Step {
	s := &Step{
		title:    title,
		kind:     KindCompletion,
		canEnter: NormalizeGuard(true),
		canExit:  NormalizeGuard(false),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the stable identifier, empty when none was given.
func (s *Step) ID() string { return s.id }

// Title returns the display title.
func (s *Step) Title() string { return s.title }

// Symbol returns the navigation bar symbol.
func (s *Step) Symbol() string { return s.symbol }

// Body returns the markdown body.
func (s *Step) Body() string { return s.body }

// Kind returns the step variant.
func (s *Step) Kind() Kind { return s.kind }

// IsCompletionStep reports whether the step is a completion step.
func (s *Step) IsCompletionStep() bool { return s.kind == KindCompletion }

// IsOptional reports whether the step is optional.
func (s *Step) IsOptional() bool { return s.optional }

// InitiallyCompleted reports the baseline completion restored on reset.
func (s *Step) InitiallyCompleted() bool { return s.initiallyCompleted }

// DefaultSelected reports whether the step is entered on reset.
func (s *Step) DefaultSelected() bool { return s.defaultSelected }

// Selected reports whether the step is the current one.
func (s *Step) Selected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// Completed reports whether the step has been completed.
func (s *Step) Completed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.completed
}

// Editing reports whether a completed step is being revisited.
func (s *Step) Editing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected && s.completed
}

// Flags returns a consistent copy of the mutable flags.
func (s *Step) Flags() StepFlags {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return StepFlags{
		ID:        s.id,
		Title:     s.title,
		Kind:      s.kind,
		Selected:  s.selected,
		Completed: s.completed,
		Editing:   s.selected && s.completed,
		Optional:  s.optional,
	}
}

func (s *Step) setSelected(v bool) {
	s.mu.Lock()
	s.selected = v
	s.mu.Unlock()
}

func (s *Step) setCompleted(v bool) {
	s.mu.Lock()
	s.completed = v
	s.mu.Unlock()
}

// satisfied reports completed || optional, optionally also accepting selected.
func (s *Step) satisfied(acceptSelected bool) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.completed || s.optional || (acceptSelected && s.selected)
}

// CanEnterStep evaluates the enter guard.
func (s *Step) CanEnterStep(ctx context.Context, direction MovingDirection) (bool, error) {
	return s.canEnter(ctx, direction)
}

// CanExitStep evaluates the exit guard.
func (s *Step) CanExitStep(ctx context.Context, direction MovingDirection) (bool, error) {
	return s.canExit(ctx, direction)
}

// Enter runs the enter lifecycle. A completion step marks itself completed first.
func (s *Step) Enter(direction MovingDirection) {
	if s.kind == KindCompletion {
		s.setCompleted(true)
	}
	for _, fn := range s.onEnter {
		fn(s, direction)
	}
}

// Exit runs the exit lifecycle. A completion step falls back to its initial
// completion value.
func (s *Step) Exit(direction MovingDirection) {
	if s.kind == KindCompletion {
		s.setCompleted(s.initiallyCompleted)
	}
	for _, fn := range s.onExit {
		fn(s, direction)
	}
}

// StepFlags is an immutable view of a step's flags.
type StepFlags struct {
	ID        string `json:"id,omitempty"`
	Title     string `json:"title"`
	Kind      Kind   `json:"kind"`
	Selected  bool   `json:"selected"`
	Completed bool   `json:"completed"`
	Editing   bool   `json:"editing"`
	Optional  bool   `json:"optional"`
}
