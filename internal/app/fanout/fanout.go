// Package fanout runs one function over many items with bounded
// concurrency. Results come back in input order, one per item, so callers
// can report per-item outcomes (for example one line per id in todoctl).
package fanout

import (
	"context"
	"errors"
	"sync"
)

// Result holds the outcome for a single item: Value on success, Err on
// failure.
type Result[R any] struct {
	Value R
	Err   error
}

// Run calls fn for every item with at most limit calls in flight. A limit
// below 1 is treated as 1.
//
// Items still waiting for a slot when ctx is done are not passed to fn;
// their Result carries ctx.Err(). Calls already running are left to honor
// ctx themselves. Run returns once every item has a Result. The slice is
// never nil.
func Run[T, R any](ctx context.Context, limit int, items []T, fn func(context.Context, T) (R, error)) []Result[R] {
	results := make([]Result[R], len(items))
	if len(items) == 0 {
		return results
	}

	sem := make(chan struct{}, max(limit, 1))
	var wg sync.WaitGroup

	for i, item := range items {
		wg.Go(func() {
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results[i].Err = ctx.Err()
				return
			}

			// select picks at random when both cases are ready.
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return
			}

			v, err := fn(ctx, item)
			results[i] = Result[R]{Value: v, Err: err}
		})
	}

	wg.Wait()
	return results
}

// Errors joins the failures in results. It returns nil when every item
// succeeded.
func Errors[R any](results []Result[R]) error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errors.Join(errs...)
}
