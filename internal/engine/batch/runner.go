package batch

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Concurrency bounds.
const (
	// MinConcurrency is the smallest allowed worker count.
	MinConcurrency = 1

	// MaxConcurrency caps the worker pool to keep scheduling overhead and
	// memory bounded for very large batches.
	MaxConcurrency = 256
)

// Common runner errors.
var (
	ErrInvalidConcurrency = fmt.Errorf("concurrency must be between %d and %d", MinConcurrency, MaxConcurrency)
	ErrNilWork            = errors.New("work function cannot be nil")
)

// Result holds one row's outcome. Exactly one of Value/Err is meaningful.
type Result[Out any] struct {
	Value Out
	Err   error
}

// ProgressCallback is invoked after each row completes, with the number of
// completed rows and the total. Callbacks run on worker goroutines and must
// be cheap and thread-safe.
type ProgressCallback func(completed, total int)

// Runner executes a per-row function over a slice with bounded concurrency.
type Runner[In, Out any] struct {
	concurrency int
	onProgress  ProgressCallback
}

// NewRunner creates a Runner. A zero concurrency selects runtime.NumCPU();
// out-of-range values are rejected.
func NewRunner[In, Out any](concurrency int) (*Runner[In, Out], error) {
	if concurrency == 0 {
		concurrency = min(runtime.NumCPU(), MaxConcurrency)
	}
	if concurrency < MinConcurrency || concurrency > MaxConcurrency {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidConcurrency, concurrency)
	}
	return &Runner[In, Out]{concurrency: concurrency}, nil
}

// WithProgressCallback sets a progress callback and returns the runner.
func (r *Runner[In, Out]) WithProgressCallback(callback ProgressCallback) *Runner[In, Out] {
	r.onProgress = callback
	return r
}

// Concurrency returns the configured worker count.
func (r *Runner[In, Out]) Concurrency() int {
	return r.concurrency
}

// Run applies work to every item and returns one Result per input index.
// Row errors land in their own slot and never cancel other rows. When ctx is
// canceled, unstarted rows report ctx.Err() and completed rows keep their
// results.
func (r *Runner[In, Out]) Run(
	ctx context.Context,
	items []In,
	work func(ctx context.Context, item In) (Out, error),
) ([]Result[Out], error) {
	if work == nil {
		return nil, ErrNilWork
	}

	results := make([]Result[Out], len(items))
	if len(items) == 0 {
		return results, nil
	}

	var completed int64
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i := range items {
		// Stop submitting once the caller's deadline hits; in-flight rows
		// finish on their own.
		if err := gCtx.Err(); err != nil {
			for j := i; j < len(items); j++ {
				results[j].Err = err
			}
			break
		}

		g.Go(func() error {
			out, err := work(gCtx, items[i])
			if err != nil {
				results[i].Err = err
			} else {
				results[i].Value = out
			}

			if r.onProgress != nil {
				r.onProgress(int(atomic.AddInt64(&completed, 1)), len(items))
			}
			// Row errors are values, not group failures.
			return nil
		})
	}

	// The group never returns a row error; only context plumbing can fail.
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
