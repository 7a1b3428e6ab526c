package wizard

import "strings"

// ModeOptions carries the configurable mode axes for ParseNavigationMode.
// They are ignored by the other modes.
type ModeOptions struct {
	NavigateBackward string
	NavigateForward  string
}

// ParseNavigationMode builds a navigation mode from its name. An empty name
// selects the configurable mode.
func ParseNavigationMode(name string, opts ModeOptions) (NavigationMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "free":
		return NewNavigationMode(FreeNavigationMode{}), nil
	case "strict":
		return NewNavigationMode(StrictNavigationMode{}), nil
	case "semi-strict", "semistrict", "semi_strict":
		return NewNavigationMode(SemiStrictNavigationMode{}), nil
	case "", "configurable":
		backward, err := ParseBackwardPolicy(opts.NavigateBackward)
		if err != nil {
			return nil, err
		}
		forward, err := ParseForwardPolicy(opts.NavigateForward)
		if err != nil {
			return nil, err
		}
		return NewNavigationMode(ConfigurableNavigationMode{
			NavigateBackward: backward,
			NavigateForward:  forward,
		}), nil
	default:
		return nil, &UnknownNavigationModeError{Value: name}
	}
}

// ResolveNavigationMode turns a mode name, a Policy, a NavigationMode or a
// constructor function into a NavigationMode. nil resolves to the default
// configurable mode.
func ResolveNavigationMode(v any) (NavigationMode, error) {
	switch m := v.(type) {
	case nil:
		return NewNavigationMode(ConfigurableNavigationMode{}), nil
	case string:
		return ParseNavigationMode(m, ModeOptions{})
	case NavigationMode:
		return m, nil
	case Policy:
		return NewNavigationMode(m), nil
	case func() NavigationMode:
		if m != nil {
			if mode := m(); mode != nil {
				return mode, nil
			}
		}
	case func() Policy:
		if m != nil {
			if policy := m(); policy != nil {
				return NewNavigationMode(policy), nil
			}
		}
	}
	return nil, &UnknownNavigationModeError{Value: v}
}
