package entitymgr

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Future wraps the result of one asynchronous manager operation. Each
// async call spawns its own errgroup.Group with a single task; Wait joins
// that group and returns the task's error, if any. The task does not
// observe ctx: cancelling it neither stops the task nor changes what Wait
// returns.
type Future[T any] struct {
	g      *errgroup.Group
	result *T
}

func newFuture[T any](ctx context.Context, fn func(context.Context) (T, error)) *Future[T] {
	g, gctx := errgroup.WithContext(ctx)
	f := &Future[T]{g: g, result: new(T)}
	g.Go(func() error {
		v, err := fn(gctx)
		if err != nil {
			return err
		}
		*f.result = v
		return nil
	})
	return f
}

// Wait blocks until the task completes, returning its result or error. The
// task always runs to completion, whether or not its context was cancelled.
func (f *Future[T]) Wait() (T, error) {
	err := f.g.Wait()
	if err != nil {
		var zero T
		return zero, err
	}
	return *f.result, nil
}
