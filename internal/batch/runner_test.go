package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestRunBoundsConcurrency(t *testing.T) {
	paths := make([]string, 10)
	for i := range paths {
		paths[i] = fmt.Sprintf("item-%d", i+1)
	}

	var mu sync.Mutex
	inFlight, peak := 0, 0

	op := func(_ context.Context, path string) (string, error) {
		mu.Lock()
		inFlight++
		if inFlight > peak {
			peak = inFlight
		}
		mu.Unlock()

		time.Sleep(10 * time.Millisecond)

		mu.Lock()
		inFlight--
		mu.Unlock()
		return path, nil
	}

	items, err := Run(context.Background(), paths, 3, op)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(items) != 10 {
		t.Fatalf("got %d items, want 10", len(items))
	}
	if peak > 3 {
		t.Errorf("peak in-flight = %d, want <= 3", peak)
	}
}

func TestRunSequentialPreservesOrder(t *testing.T) {
	paths := []string{"a", "b", "c"}

	var attempted []string
	op := func(_ context.Context, path string) (int, error) {
		attempted = append(attempted, path)
		return len(attempted), nil
	}

	items, err := Run(context.Background(), paths, 1, op)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}
	for i, want := range paths {
		if attempted[i] != want {
			t.Errorf("attempted[%d] = %q, want %q", i, attempted[i], want)
		}
		if items[i].Path != want {
			t.Errorf("items[%d].Path = %q, want %q", i, items[i].Path, want)
		}
	}
}

func TestRunFailFast(t *testing.T) {
	paths := []string{"f1", "f2", "f3", "f4", "f5"}
	cause := errors.New("prediction failed")

	var attempted []string
	op := func(_ context.Context, path string) (struct{}, error) {
		attempted = append(attempted, path)
		if path == "f3" {
			return struct{}{}, cause
		}
		return struct{}{}, nil
	}

	items, err := Run(context.Background(), paths, 1, op)
	if err == nil {
		t.Fatal("Run() error = nil, want ItemError")
	}

	var itemErr *ItemError
	if !errors.As(err, &itemErr) {
		t.Fatalf("Run() error = %v, want *ItemError", err)
	}
	if itemErr.Path != "f3" {
		t.Errorf("ItemError.Path = %q, want f3", itemErr.Path)
	}
	if !errors.Is(err, cause) {
		t.Errorf("error does not wrap the underlying cause: %v", err)
	}

	if len(attempted) != 3 {
		t.Errorf("attempted %v, want exactly f1..f3", attempted)
	}
	if len(items) != 2 {
		t.Errorf("got %d successful items, want 2", len(items))
	}
}

// The feeder's select can have both the stop wakeup and a parked send
// ready at once; a worker arriving at the receive used to pair with the
// send and run one extra item. Repetition makes that window reliable to
// hit, so a regression shows up as a failed iteration here.
func TestRunFailFastNeverAdmitsAfterFailure(t *testing.T) {
	paths := []string{"f1", "f2", "f3", "f4", "f5"}
	cause := errors.New("prediction failed")

	for i := 0; i < 2000; i++ {
		var attempted []string
		op := func(_ context.Context, path string) (struct{}, error) {
			attempted = append(attempted, path)
			if path == "f3" {
				return struct{}{}, cause
			}
			return struct{}{}, nil
		}

		items, err := Run(context.Background(), paths, 1, op)
		if !errors.Is(err, cause) {
			t.Fatalf("iteration %d: Run() error = %v, want wrapped cause", i, err)
		}
		if len(attempted) != 3 || attempted[2] != "f3" {
			t.Fatalf("iteration %d: attempted %v, want exactly f1..f3", i, attempted)
		}
		if len(items) != 2 {
			t.Fatalf("iteration %d: got %d successful items, want 2", i, len(items))
		}
	}
}

func TestRunCancellationStopsAdmission(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var attempted int
	op := func(ctx context.Context, _ string) (struct{}, error) {
		attempted++
		if attempted == 2 {
			cancel()
			<-ctx.Done()
		}
		return struct{}{}, nil
	}

	items, err := Run(ctx, []string{"a", "b", "c", "d"}, 1, op)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if attempted != 2 {
		t.Errorf("attempted = %d, want 2 (no admission after cancel)", attempted)
	}
	// In-flight items completed normally and are still reported.
	if len(items) != 2 {
		t.Errorf("got %d items, want 2", len(items))
	}
}

func TestRunValidatesWorkers(t *testing.T) {
	op := func(context.Context, string) (struct{}, error) { return struct{}{}, nil }
	if _, err := Run(context.Background(), []string{"a"}, 0, op); err == nil {
		t.Error("Run() with workers=0 returned nil error")
	}
}

func TestRunEmptyInput(t *testing.T) {
	op := func(context.Context, string) (struct{}, error) { return struct{}{}, nil }
	items, err := Run(context.Background(), nil, 4, op)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(items) != 0 {
		t.Errorf("got %d items, want 0", len(items))
	}
}
