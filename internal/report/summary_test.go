package report

import (
	"io"
	"os"
	"strings"
	"testing"

	"mlrunner/internal/stats"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	_ = w.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	return string(out)
}

func TestPrintBatchSummaryFormatsDurationAsElapsedTime(t *testing.T) {
	report := &BatchReport{
		Requested:  3,
		Succeeded:  3,
		Workers:    2,
		DurationMs: 251,
		Stats:      stats.Summary{Count: 3, Mean: 4.0, PerSecond: 250},
	}

	out := captureStdout(t, func() { PrintBatchSummary(report) })

	if !strings.Contains(out, "Duration: 251ms") {
		t.Errorf("output %q lacks elapsed-time duration", out)
	}
	if strings.Contains(out, "251.000ms") {
		t.Errorf("output %q renders wall-clock time as a latency figure", out)
	}
	if !strings.Contains(out, "4.000ms") {
		t.Errorf("output %q lacks the three-decimal mean latency", out)
	}
}

func TestPrintBatchSummaryReportsCancellation(t *testing.T) {
	report := &BatchReport{
		Requested: 5,
		Succeeded: 2,
		Workers:   1,
		Cancelled: true,
		Error:     "context canceled",
		Stats:     stats.Summary{Count: 2, Mean: 3.0, PerSecond: 333.33},
	}

	out := captureStdout(t, func() { PrintBatchSummary(report) })

	if !strings.Contains(out, "cancelled after 2 of 5 files") {
		t.Errorf("output %q lacks the cancellation line", out)
	}
	if !strings.Contains(out, "context canceled") {
		t.Errorf("output %q lacks the recorded error", out)
	}
}
