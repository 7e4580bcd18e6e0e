// Package fanout runs independent upstream calls concurrently and collects
// a result or an error for every branch. One branch failing never cancels
// or hides its siblings.
package fanout

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Result is the outcome of one branch.
type Result[T any] struct {
	Value T
	Err   error
}

// OK reports whether the branch succeeded.
func (r Result[T]) OK() bool {
	return r.Err == nil
}

// ValueOrNil returns the value as any, or nil when the branch failed.
// Useful for response fields that must be null on failure.
func (r Result[T]) ValueOrNil() any {
	if r.Err != nil {
		return nil
	}
	return r.Value
}

// Task is a single branch of a fan-out.
type Task[T any] func(ctx context.Context) (T, error)

// Settle runs every task concurrently and waits for all of them.
// Results are returned in task order. A panicking task is reported as an
// error on its own branch.
func Settle[T any](ctx context.Context, tasks ...Task[T]) []Result[T] {
	results := make([]Result[T], len(tasks))

	// Branches never return an error to the group, so the group never
	// cancels the shared context on the first failure.
	var g errgroup.Group
	for i, task := range tasks {
		i, task := i, task
		g.Go(func() error {
			defer func() {
				if p := recover(); p != nil {
					results[i] = Result[T]{Err: fmt.Errorf("branch panicked: %v", p)}
				}
			}()
			v, err := task(ctx)
			results[i] = Result[T]{Value: v, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// Named runs tasks keyed by name and returns results under the same keys.
func Named[T any](ctx context.Context, tasks map[string]Task[T]) map[string]Result[T] {
	names := make([]string, 0, len(tasks))
	list := make([]Task[T], 0, len(tasks))
	for name, task := range tasks {
		names = append(names, name)
		list = append(list, task)
	}

	settled := Settle(ctx, list...)
	out := make(map[string]Result[T], len(names))
	for i, name := range names {
		out[name] = settled[i]
	}
	return out
}
