package tx

import (
	"context"
	"fmt"
)

// Compensable is a set of dependent writes that can be undone.
// Apply and Compensate must be exact inverses on the stores they touch.
type Compensable interface {
	Apply(ctx context.Context) error
	Compensate(ctx context.Context) error
}

// Replace compensates prior, runs next and applies the effect it returns,
// all inside one unit of work. A nil prior skips compensation (create); a nil
// effect from next skips application (delete).
func Replace(
	ctx context.Context,
	m Manager,
	prior Compensable,
	next func(ctx context.Context) (Compensable, error),
) error {
	return m.RunInTransaction(ctx, func(ctx context.Context) error {
		if prior != nil {
			if err := prior.Compensate(ctx); err != nil {
				return fmt.Errorf("compensate: %w", err)
			}
		}

		effect, err := next(ctx)
		if err != nil {
			return err
		}
		if effect == nil {
			return nil
		}

		if err := effect.Apply(ctx); err != nil {
			return fmt.Errorf("apply: %w", err)
		}
		return nil
	})
}
