// Package definition loads wizard definitions from YAML and builds wizard state from them.
package definition

import (
	"context"
	"fmt"

	"github.com/mark3labs/stepwise/internal/hooks"
	"github.com/mark3labs/stepwise/internal/wizard"
	"gopkg.in/yaml.v3"
)

// Definition is a wizard described in YAML.
type Definition struct {
	Name                 string     `yaml:"name"`
	Navigation           Navigation `yaml:"navigation,omitempty"`
	DefaultStep          int        `yaml:"default_step,omitempty"`
	DisableNavigationBar bool       `yaml:"disable_navigation_bar,omitempty"`
	Steps                []StepDef  `yaml:"steps"`
}

// Navigation selects the navigation mode. Empty fields inherit from config.
type Navigation struct {
	Mode             string `yaml:"mode,omitempty"`
	NavigateBackward string `yaml:"navigate_backward,omitempty"`
	NavigateForward  string `yaml:"navigate_forward,omitempty"`
}

// StepDef describes one step.
type StepDef struct {
	ID         string            `yaml:"id,omitempty"`
	Title      string            `yaml:"title"`
	Symbol     string            `yaml:"symbol,omitempty"`
	Body       string            `yaml:"body,omitempty"`
	Optional   bool              `yaml:"optional,omitempty"`
	Completed  bool              `yaml:"completed,omitempty"`
	Default    bool              `yaml:"default,omitempty"`
	Completion bool              `yaml:"completion,omitempty"`
	CanEnter   *Guard            `yaml:"can_enter,omitempty"`
	CanExit    *Guard            `yaml:"can_exit,omitempty"`
	OnEnter    *hooks.HookConfig `yaml:"on_enter,omitempty"`
	OnExit     *hooks.HookConfig `yaml:"on_exit,omitempty"`
}

// Built-in guard names.
const (
	GuardAlways        = "always"
	GuardNever         = "never"
	GuardForwardsOnly  = "forwards-only"
	GuardBackwardsOnly = "backwards-only"
)

// Guard is a step guard as written in YAML: a boolean, a built-in name, a
// shell command, or any other value, which is kept verbatim and reported as a
// malformed guard when evaluated.
type Guard struct {
	Bool    *bool
	Builtin string
	Command *hooks.HookConfig
	Raw     any
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (g *Guard) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.ShortTag() == "!!bool" {
			var b bool
			if err := node.Decode(&b); err != nil {
				return err
			}
			g.Bool = &b
			return nil
		}
		switch node.Value {
		case GuardAlways, GuardNever, GuardForwardsOnly, GuardBackwardsOnly:
			g.Builtin = node.Value
			return nil
		}
	case yaml.MappingNode:
		var hook hooks.HookConfig
		if err := node.Decode(&hook); err != nil {
			return fmt.Errorf("line %d: decoding guard command: %w", node.Line, err)
		}
		g.Command = &hook
		return nil
	}

	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	g.Raw = raw
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (g Guard) MarshalYAML() (any, error) {
	switch {
	case g.Bool != nil:
		return *g.Bool, nil
	case g.Builtin != "":
		return g.Builtin, nil
	case g.Command != nil:
		return g.Command, nil
	default:
		return g.Raw, nil
	}
}

// value converts the guard into something wizard.NormalizeGuard accepts.
// check evaluates command guards.
func (g *Guard) value(check func(ctx context.Context, hook *hooks.HookConfig, d wizard.MovingDirection) (bool, error)) any {
	switch {
	case g.Bool != nil:
		return *g.Bool
	case g.Builtin != "":
		return builtinGuard(g.Builtin)
	case g.Command != nil:
		hook := g.Command
		return wizard.GuardFunc(func(ctx context.Context, d wizard.MovingDirection) (bool, error) {
			return check(ctx, hook, d)
		})
	default:
		return g.Raw
	}
}

func builtinGuard(name string) func(wizard.MovingDirection) bool {
	switch name {
	case GuardNever:
		return func(wizard.MovingDirection) bool { return false }
	case GuardForwardsOnly:
		return func(d wizard.MovingDirection) bool { return d != wizard.Backwards }
	case GuardBackwardsOnly:
		return func(d wizard.MovingDirection) bool { return d != wizard.Forwards }
	default:
		return func(wizard.MovingDirection) bool { return true }
	}
}
