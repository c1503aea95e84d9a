package dashboard

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// Source reports where a view's data came from.
type Source string

const (
	SourceLive     Source = "live"
	SourceFallback Source = "fallback"
)

// Task fills its own part of a group result. Tasks in one group must write to
// disjoint fields of out.
type Task[T any] func(ctx context.Context, out *T) error

// Result is the settled outcome of a fetch group.
type Result[T any] struct {
	Data   T
	Source Source
	Err    error
}

var errNoFallback = errors.New("dashboard: fallback constructor is required")

// JoinWithFallback runs every task concurrently and waits for all of them to
// settle. When all succeed the assembled value is returned as is. When any
// task fails the partial value is discarded and fallback() is returned whole,
// together with the first error.
func JoinWithFallback[T any](ctx context.Context, fallback func() T, tasks ...Task[T]) Result[T] {
	if fallback == nil {
		var zero T
		return Result[T]{Data: zero, Source: SourceFallback, Err: errNoFallback}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	var live T
	group, groupCtx := errgroup.WithContext(ctx)
	for _, task := range tasks {
		if task == nil {
			continue
		}
		group.Go(func() error {
			return task(groupCtx, &live)
		})
	}
	if err := group.Wait(); err != nil {
		return Result[T]{Data: fallback(), Source: SourceFallback, Err: err}
	}
	return Result[T]{Data: live, Source: SourceLive}
}
