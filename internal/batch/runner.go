// Package batch runs one operation per input file under a fixed
// concurrency budget.
package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Item pairs an input path with the result its operation produced.
// Items are emitted in completion order, not input order; callers that
// need input ordering should sort by Path.
type Item[R any] struct {
	Path   string
	Result R
}

// ItemError reports the first per-item failure. The batch is aborted
// fail-fast: no further items are admitted once one fails.
type ItemError struct {
	Path string
	Err  error
}

func (e *ItemError) Error() string { return fmt.Sprintf("item %s: %v", e.Path, e.Err) }

func (e *ItemError) Unwrap() error { return e.Err }

// Op is the per-item operation. It must be safe for concurrent use.
type Op[R any] func(ctx context.Context, path string) (R, error)

// Run executes op for every path with at most workers operations in
// flight. Admission is sliding-window: a new item starts only when a
// previous one completes. workers == 1 processes paths strictly in
// input order.
//
// On the first op error, admission stops, in-flight operations are
// allowed to finish, and the *ItemError is returned alongside the
// successful items collected so far. Context cancellation likewise
// stops admission and returns ctx.Err(); in-flight work is never
// hard-killed.
func Run[R any](ctx context.Context, paths []string, workers int, op Op[R]) ([]Item[R], error) {
	if workers < 1 {
		return nil, fmt.Errorf("batch: workers must be >= 1, got %d", workers)
	}
	if op == nil {
		return nil, errors.New("batch: nil operation")
	}
	if len(paths) == 0 {
		return nil, nil
	}
	workers = min(workers, len(paths))

	// Admission gate: the unbuffered channel plus the fixed worker
	// count keeps at most `workers` operations in flight. Closing stop
	// refuses any further admission.
	workCh := make(chan string)
	stop := make(chan struct{})
	var stopOnce sync.Once
	halt := func() { stopOnce.Do(func() { close(stop) }) }

	go func() {
		defer close(workCh)
		for _, path := range paths {
			select {
			case <-ctx.Done():
				return
			case <-stop:
				return
			case workCh <- path:
			}
		}
	}()

	type outcome struct {
		item Item[R]
		err  error
	}
	resultsCh := make(chan outcome, workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			for path := range workCh {
				// The feeder's select can pair a parked send with a
				// worker before the stop wakeup commits, so a path can
				// slip through after halt. Re-check here and discard
				// it without running the operation.
				select {
				case <-stop:
					continue
				case <-ctx.Done():
					continue
				default:
				}
				r, err := op(ctx, path)
				if err != nil {
					halt()
					resultsCh <- outcome{err: &ItemError{Path: path, Err: err}}
					continue
				}
				resultsCh <- outcome{item: Item[R]{Path: path, Result: r}}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(resultsCh)
	}()

	items := make([]Item[R], 0, len(paths))
	var firstErr error
	for out := range resultsCh {
		if out.err != nil {
			if firstErr == nil {
				firstErr = out.err
			}
			continue
		}
		items = append(items, out.item)
	}

	if firstErr != nil {
		return items, firstErr
	}
	if err := ctx.Err(); err != nil {
		return items, err
	}
	return items, nil
}
