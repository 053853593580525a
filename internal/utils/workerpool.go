package utils

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// ParallelMap applies fn to every item with at most workers calls in flight
// and returns the results in input order. Items not started before ctx is
// done are skipped and keep the zero R. The returned error joins every item
// failure; one failing item does not stop the others.
func ParallelMap[T, R any](ctx context.Context, items []T, workers int, fn func(context.Context, T) (R, error)) ([]R, error) {
	results := make([]R, len(items))
	errs := make([]error, len(items))

	var g errgroup.Group
	g.SetLimit(max(workers, 1))

	for i, item := range items {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			results[i], errs[i] = fn(ctx, item)
			return nil
		})
	}
	_ = g.Wait()

	return results, errors.Join(errs...)
}
