package app

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ParallelLimit calls every fn with at most limit in flight and returns the
// results in input order. The first failure cancels the context passed to the
// calls still running and is returned wrapped.
func ParallelLimit[T any](
	ctx context.Context,
	limit int,
	fns ...func(context.Context) (T, error),
) ([]T, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(limit, 1))

	out := make([]T, len(fns))

	for i, fn := range fns {
		g.Go(func() error {
			v, err := fn(gctx)
			out[i] = v

			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("parallel load: %w", err)
	}

	return out, nil
}

// PartialResult is the outcome of one call made by ParallelPartialLimit.
type PartialResult[T any] struct {
	Value T
	Err   error
}

// ParallelPartialLimit calls every fn with at most limit in flight and
// reports each outcome in input order. A failure does not stop the others.
// Calls that have not started when ctx is done report ctx.Err().
func ParallelPartialLimit[T any](
	ctx context.Context,
	limit int,
	fns ...func(context.Context) (T, error),
) []PartialResult[T] {
	out := make([]PartialResult[T], len(fns))
	slots := make(chan struct{}, max(limit, 1))

	var wg sync.WaitGroup

	for i, fn := range fns {
		wg.Go(func() {
			select {
			case slots <- struct{}{}:
			case <-ctx.Done():
				out[i].Err = ctx.Err()
				return
			}

			defer func() { <-slots }()

			v, err := fn(ctx)
			out[i] = PartialResult[T]{Value: v, Err: err}
		})
	}

	wg.Wait()

	return out
}
