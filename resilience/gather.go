package resilience

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Gather runs a batch of operations with at most limit in flight at once.
//
// Results are returned in the same order as the input regardless of
// completion order. If any operation fails, the first error observed by
// the group is returned; operations already admitted run to completion
// rather than being forcibly aborted, and pending operations are still
// scheduled. An empty input returns an empty slice without scheduling
// anything.
func Gather[T any](ctx context.Context, ops []func(context.Context) (T, error), limit int) ([]T, error) {
	if limit < 1 {
		return nil, ErrInvalidLimit
	}
	if len(ops) == 0 {
		return []T{}, nil
	}

	results := make([]T, len(ops))

	// A plain group (not WithContext) so a failure does not cancel
	// operations that are already in flight.
	var g errgroup.Group
	g.SetLimit(limit)

	for i, op := range ops {
		if op == nil {
			return nil, ErrNilOperation
		}
		g.Go(func() error {
			v, err := op(ctx)
			if err != nil {
				return err
			}
			results[i] = v
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
