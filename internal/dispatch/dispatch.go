// Package dispatch runs per-file hashing work across a bounded worker
// pool, collecting results in completion order and reporting periodic
// progress. Cancellation is cooperative: once the context is cancelled no
// new work starts, in-flight items finish naturally, and whatever has
// completed so far is returned. A cancelled run is a normal outcome, not
// an error.
package dispatch

import (
	"context"
	"errors"
	"io/fs"
	"sync"

	"github.com/google/uuid"

	"github.com/jkulhanek/dupescan/internal/progress"
)

// progressInterval is how many completions pass between progress events.
// The final completion always emits one regardless of the interval.
const progressInterval = 50

// Reason classifies why a single work item produced no result.
type Reason int

const (
	// Unreadable covers open and read failures on the source file.
	Unreadable Reason = iota
	// DecodeError covers corrupt or unsupported file contents.
	DecodeError
	// Cancelled marks items that observed cancellation before finishing.
	Cancelled
)

func (r Reason) String() string {
	switch r {
	case Unreadable:
		return "unreadable"
	case DecodeError:
		return "decode error"
	case Cancelled:
		return "cancelled"
	}
	return "unknown"
}

// Item pairs a work item's path with its computed value.
type Item[T any] struct {
	Path  string
	Value T
}

// Failure records a dropped work item. Failures never abort the run;
// they are kept so callers can diagnose what was skipped.
type Failure struct {
	Path   string
	Reason Reason
}

// Summary describes one finished dispatcher run.
type Summary struct {
	RunID     uuid.UUID
	Total     int
	Found     int
	Failures  []Failure
	Cancelled bool
}

// Run dispatches fn over paths using at most workers concurrent workers
// (minimum 1) and returns the eligible results in completion order.
//
// A progress event is emitted on the sink every progressInterval
// completions and unconditionally on the final one. Per-item errors are
// recorded as failures and dropped. Run never returns an error: a
// cancelled run is reported through Summary.Cancelled.
func Run[T any](ctx context.Context, paths []string, workers int, phase string, fn func(context.Context, string) (T, error), sink progress.Sink) ([]Item[T], Summary) {
	if workers < 1 {
		workers = 1
	}
	if sink == nil {
		sink = progress.NopSink{}
	}

	total := len(paths)
	summary := Summary{RunID: uuid.New(), Total: total}

	type outcome struct {
		path string
		val  T
		err  error
	}

	out := make(chan outcome)
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for _, p := range paths {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			// Skip scheduling once cancellation is observed. Items
			// already inside fn are left to finish on their own.
			if err := ctx.Err(); err != nil {
				out <- outcome{path: path, err: err}
				return
			}
			v, err := fn(ctx, path)
			out <- outcome{path: path, val: v, err: err}
		}(p)
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	// Single collector goroutine: owns the done counter, so progress
	// events are naturally ordered and monotonic.
	results := make([]Item[T], 0, total)
	done := 0
	for oc := range out {
		done++
		if ctx.Err() == nil && (done%progressInterval == 0 || done == total) {
			sink.Progress(progress.Event{Done: done, Total: total, Phase: phase})
		}
		if oc.err != nil {
			summary.Failures = append(summary.Failures, Failure{Path: oc.path, Reason: classify(oc.err)})
			continue
		}
		results = append(results, Item[T]{Path: oc.path, Value: oc.val})
	}

	summary.Found = len(results)
	summary.Cancelled = ctx.Err() != nil
	return results, summary
}

// classify maps a per-item error to its failure reason.
func classify(err error) Reason {
	var pathErr *fs.PathError
	switch {
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		return Cancelled
	case errors.As(err, &pathErr):
		return Unreadable
	default:
		return DecodeError
	}
}
