package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// RunBatch calls fn for every item with at most workers calls in flight and
// returns the per-item errors, indexed like items. One item's failure does
// not stop the others; cancelling ctx marks the remaining items with its
// error.
func RunBatch(ctx context.Context, items []string, workers int, fn func(ctx context.Context, item string) error) []error {
	if workers <= 0 {
		workers = 1
	}
	errs := make([]error, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, item := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			errs[i] = fn(gctx, item)
			return nil
		})
	}
	_ = g.Wait()
	return errs
}
