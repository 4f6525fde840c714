package app

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// fanOut calls fn for every item with at most limit calls in flight
// (limit <= 0 means unbounded). Results keep the order of items. The first
// error cancels the remaining calls and is returned alone.
func fanOut[In, Out any](ctx context.Context, limit int, items []In, fn func(context.Context, In) (Out, error)) ([]Out, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(groupLimit(limit))

	out := make([]Out, len(items))

	for i, item := range items {
		g.Go(func() error {
			v, err := fn(ctx, item)
			out[i] = v

			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

// settled is one outcome of fanOutSettled.
type settled[In, Out any] struct {
	Item  In
	Value Out
	Err   error
}

// fanOutSettled is fanOut without the short circuit: every item runs to
// completion and each outcome is reported.
func fanOutSettled[In, Out any](ctx context.Context, limit int, items []In, fn func(context.Context, In) (Out, error)) []settled[In, Out] {
	var g errgroup.Group
	g.SetLimit(groupLimit(limit))

	out := make([]settled[In, Out], len(items))

	for i, item := range items {
		g.Go(func() error {
			v, err := fn(ctx, item)
			out[i] = settled[In, Out]{Item: item, Value: v, Err: err}

			return nil
		})
	}

	_ = g.Wait()

	return out
}

func groupLimit(limit int) int {
	if limit <= 0 {
		return -1
	}

	return limit
}
