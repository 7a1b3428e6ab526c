package wizard

import (
	"errors"
	"fmt"
)

// Sentinel errors. The typed errors below match them through errors.Is.
var (
	ErrUnknownStep           = errors.New("wizard: unknown step")
	ErrMalformedGuard        = errors.New("wizard: malformed guard")
	ErrInvalidDefaultStep    = errors.New("wizard: invalid default step")
	ErrIllegalDefaultStep    = errors.New("wizard: default step violates navigation policy")
	ErrUnknownNavigationMode = errors.New("wizard: unknown navigation mode")

	// ErrNavigationInProgress is returned when a navigation or reset is requested
	// while another one on the same State is still evaluating guards.
	ErrNavigationInProgress = errors.New("wizard: navigation already in progress")
)

// UnknownStepIndexError reports a positional lookup outside the step sequence.
type UnknownStepIndexError struct {
	Index int
	Count int
}

func (e *UnknownStepIndexError) Error() string {
	return fmt.Sprintf("wizard: no step at index %d (wizard has %d steps)", e.Index, e.Count)
}

func (e *UnknownStepIndexError) Is(target error) bool { return target == ErrUnknownStep }

// UnknownStepIDError reports an id lookup that matched no step.
type UnknownStepIDError struct {
	ID string
}

func (e *UnknownStepIDError) Error() string {
	return fmt.Sprintf("wizard: no step with id %q", e.ID)
}

func (e *UnknownStepIDError) Is(target error) bool { return target == ErrUnknownStep }

// MalformedGuardError carries a guard value that is neither a boolean nor a
// supported function type.
type MalformedGuardError struct {
	Value any
}

func (e *MalformedGuardError) Error() string {
	return fmt.Sprintf("wizard: malformed guard %#v (%T): expected bool or func", e.Value, e.Value)
}

func (e *MalformedGuardError) Is(target error) bool { return target == ErrMalformedGuard }

// InvalidDefaultStepError is returned by Reset when the default index does not
// reference a step.
type InvalidDefaultStepError struct {
	Index int
	Count int
}

func (e *InvalidDefaultStepError) Error() string {
	return fmt.Sprintf("wizard: default step index %d does not exist (wizard has %d steps)", e.Index, e.Count)
}

func (e *InvalidDefaultStepError) Is(target error) bool { return target == ErrInvalidDefaultStep }

// IllegalDefaultStepPolicyError is returned by Reset when a navigation policy
// forbids starting at the default step.
type IllegalDefaultStepPolicyError struct {
	Mode   string
	Index  int
	Reason string
}

func (e *IllegalDefaultStepPolicyError) Error() string {
	return fmt.Sprintf("wizard: %s navigation cannot start at step %d: %s", e.Mode, e.Index, e.Reason)
}

func (e *IllegalDefaultStepPolicyError) Is(target error) bool { return target == ErrIllegalDefaultStep }

// UnknownNavigationModeError is returned by the factory for names or values it
// cannot resolve.
type UnknownNavigationModeError struct {
	Value any
}

func (e *UnknownNavigationModeError) Error() string {
	return fmt.Sprintf("wizard: unknown navigation mode %v", e.Value)
}

func (e *UnknownNavigationModeError) Is(target error) bool { return target == ErrUnknownNavigationMode }
