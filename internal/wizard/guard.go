package wizard

import "context"

// GuardFunc decides whether a step may be entered or exited in a direction.
// It may block (a command, a network check); it must honour ctx.
type GuardFunc func(ctx context.Context, direction MovingDirection) (bool, error)

// NormalizeGuard converts a guard declaration into a GuardFunc.
//
// Accepted values are nil (always true), bool, GuardFunc and the function
// shapes func(MovingDirection) bool, func(MovingDirection) (bool, error) and
// func(context.Context, MovingDirection) (bool, error). Any other value yields a
// GuardFunc that fails with *MalformedGuardError when evaluated, so a bad guard
// is reported by the navigation call that hits it rather than at construction.
func NormalizeGuard(v any) GuardFunc {
	switch g := v.(type) {
	case nil:
		return constGuard(true)
	case bool:
		return constGuard(g)
	case GuardFunc:
		if g == nil {
			return constGuard(true)
		}
		return g
	case func(context.Context, MovingDirection) (bool, error):
		if g == nil {
			return constGuard(true)
		}
		return g
	case func(MovingDirection) (bool, error):
		if g == nil {
			return constGuard(true)
		}
		return func(ctx context.Context, d MovingDirection) (bool, error) {
			if err := ctx.Err(); err != nil {
				return false, err
			}
			return g(d)
		}
	case func(MovingDirection) bool:
		if g == nil {
			return constGuard(true)
		}
		return func(ctx context.Context, d MovingDirection) (bool, error) {
			if err := ctx.Err(); err != nil {
				return false, err
			}
			return g(d), nil
		}
	default:
		return func(context.Context, MovingDirection) (bool, error) {
			return false, &MalformedGuardError{Value: v}
		}
	}
}

func constGuard(allowed bool) GuardFunc {
	return func(ctx context.Context, _ MovingDirection) (bool, error) {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		return allowed, nil
	}
}
