package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"

	"mlrunner/internal/batch"
)

func TestExpandInputPathsFlattensDirectories(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.png", "b.png", ".hidden"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0o750); err != nil {
		t.Fatal(err)
	}
	extra := filepath.Join(t.TempDir(), "c.png")
	if err := os.WriteFile(extra, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	paths, err := expandInputPaths([]string{dir, extra})
	if err != nil {
		t.Fatalf("expandInputPaths() error = %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("paths = %v, want a.png, b.png and c.png", paths)
	}
	for _, p := range paths {
		if filepath.Base(p) == ".hidden" || filepath.Base(p) == "nested" {
			t.Errorf("unexpected path %s", p)
		}
	}
}

func TestExpandInputPathsMissingFile(t *testing.T) {
	if _, err := expandInputPaths([]string{filepath.Join(t.TempDir(), "nope")}); err == nil {
		t.Error("expandInputPaths() error = nil for missing file")
	}
}

func TestBuildBatchReport(t *testing.T) {
	items := []batch.Item[batchOutcome]{
		{Path: "a.png", Result: batchOutcome{latencyMs: 2.0, engineMs: 1.5}},
		{Path: "b.png", Result: batchOutcome{latencyMs: 4.0, engineMs: 3.1}},
	}
	runErr := &batch.ItemError{Path: "c.png", Err: errors.New("engine timeout")}

	rep := buildBatchReport("run", "model.mlmodel", 4, 3, items, 250*time.Millisecond, runErr)

	if rep.Requested != 3 || rep.Succeeded != 2 || rep.Failed != 1 {
		t.Errorf("counts = %d/%d/%d", rep.Requested, rep.Succeeded, rep.Failed)
	}
	if rep.Stats.Mean != 3.0 {
		t.Errorf("Stats.Mean = %v, want 3.0", rep.Stats.Mean)
	}
	if rep.DurationMs != 250 {
		t.Errorf("DurationMs = %d", rep.DurationMs)
	}
	if rep.Error == "" {
		t.Error("Error not recorded")
	}
}

func TestBuildBatchReportCancelled(t *testing.T) {
	items := []batch.Item[batchOutcome]{
		{Path: "a.png", Result: batchOutcome{latencyMs: 2.0}},
	}

	rep := buildBatchReport("run", "m", 2, 5, items, time.Second, context.Canceled)

	if !rep.Cancelled {
		t.Error("Cancelled = false for a context-cancellation error")
	}
	if rep.Failed != 0 {
		t.Errorf("Failed = %d, want 0 (no item failed)", rep.Failed)
	}
	if rep.Error == "" {
		t.Error("Error not recorded")
	}
}

func TestBuildBatchReportAllSucceeded(t *testing.T) {
	items := []batch.Item[batchOutcome]{
		{Path: "a.png", Result: batchOutcome{latencyMs: 5.0}},
	}
	rep := buildBatchReport("run", "m", 1, 1, items, time.Millisecond, nil)
	if rep.Failed != 0 || rep.Error != "" {
		t.Errorf("report = %+v, want no failure", rep)
	}
}
