package service

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"golang.org/x/sync/errgroup"
)

// BatchRunner runs independent jobs with bounded concurrency. A job that
// panics is recovered and reported through onPanic; it never stops the batch.
type BatchRunner struct {
	concurrency int
}

// NewBatchRunner creates a runner. A non-positive concurrency runs one job
// at a time.
func NewBatchRunner(concurrency int) *BatchRunner {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &BatchRunner{concurrency: concurrency}
}

// Run calls job(ctx, i) for every i in [0, n) and blocks until all calls have
// returned. Jobs not yet started when ctx is done are still called so that
// they can record their own cancellation.
func (r *BatchRunner) Run(ctx context.Context, n int, job func(ctx context.Context, i int), onPanic func(i int, err error)) {
	var g errgroup.Group
	g.SetLimit(r.concurrency)

	for i := 0; i < n; i++ {
		g.Go(func() error {
			defer func() {
				if rec := recover(); rec != nil {
					err := fmt.Errorf("panic: %v", rec)
					slog.Error("batch: job panicked", "index", i, "error", err, "stack", string(debug.Stack()))
					if onPanic != nil {
						onPanic(i, err)
					}
				}
			}()
			job(ctx, i)
			return nil
		})
	}
	_ = g.Wait()
}
