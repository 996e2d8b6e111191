package report

import (
	"fmt"
	"time"

	"mlrunner/internal/bench"
	"mlrunner/internal/cli"
)

// PrintBenchSummary renders the per-model latency table.
func PrintBenchSummary(result *bench.Result) {
	cli.ModelHeader(result.ModelName)
	cli.KeyValuePairs(
		"Units", string(result.ComputeUnits),
		"Runs", cli.FormatCount(result.Runs),
		"Warmup", cli.FormatCount(result.Warmup),
		"Duration", cli.FormatDuration(result.Duration),
	)
	cli.Blank()

	s := result.Stats
	fmt.Println("  ─────────────────────────────────────────────────────────────")
	fmt.Printf("  %10s  %10s  %10s  %10s  %10s\n", "Mean", "Min", "Max", "StdDev", "Rate")
	fmt.Printf("  %10s  %10s  %10s  %10s  %10s\n",
		cli.FormatMillis(s.Mean),
		cli.FormatMillis(s.Min),
		cli.FormatMillis(s.Max),
		cli.FormatMillis(s.StdDev),
		cli.FormatThroughput(s.PerSecond))
	cli.Blank()

	fmt.Printf("  %10s  %10s  %10s\n", "P50", "P95", "P99")
	fmt.Printf("  %10s  %10s  %10s\n",
		cli.FormatMillis(s.P50),
		cli.FormatMillis(s.P95),
		cli.FormatMillis(s.P99))
	fmt.Println("  ─────────────────────────────────────────────────────────────")
	cli.Blank()
}

// PrintBatchSummary renders the batch run totals and any failure.
func PrintBatchSummary(report *BatchReport) {
	cli.Section("Batch Results")

	cli.KeyValuePairs(
		"Files", cli.FormatCount(report.Requested),
		"Workers", fmt.Sprintf("%d", report.Workers),
		"Duration", cli.FormatDuration(time.Duration(report.DurationMs)*time.Millisecond),
	)

	if report.Succeeded > 0 {
		cli.Successf("%d processed, avg %s (%s)",
			report.Succeeded,
			cli.FormatMillis(report.Stats.Mean),
			cli.FormatThroughput(report.Stats.PerSecond))
	}
	if report.Failed > 0 {
		cli.Failf("%d failed", report.Failed)
	}
	if report.Cancelled {
		cli.Warnf("cancelled after %d of %d files", report.Succeeded, report.Requested)
	}
	if report.Error != "" {
		cli.Linef("└─ %s", cli.Truncate(report.Error, 75))
	}
	cli.Blank()
}
