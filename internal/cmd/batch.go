package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"mlrunner/internal/batch"
	"mlrunner/internal/cli"
	"mlrunner/internal/influx"
	"mlrunner/internal/report"
	"mlrunner/internal/stats"
)

var batchWorkers int

type batchOutcome struct {
	latencyMs float64
	engineMs  float64
}

var batchCmd = &cobra.Command{
	Use:   "batch <model> <file|dir>...",
	Short: "Run predictions over many input files with bounded concurrency",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		paths, err := expandInputPaths(args[1:])
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			return errors.New("no input files found")
		}

		workers := batchWorkers
		if workers <= 0 {
			workers = cfg.Batch.Workers
		}

		client := newRuntimeClient()
		model, err := client.Load(ctx, args[0], cfg.Runtime.Units)
		if err != nil {
			return err
		}
		defer func() {
			if err := model.Close(ctx); err != nil {
				cli.Warnf("Failed to unload model: %v", err)
			}
		}()

		cli.Infof("Processing %d files with %d workers", len(paths), workers)

		spinner := cli.NewProgressSpinner()
		spinner.Start(len(paths), "predicting")

		var done atomic.Int64
		start := time.Now()

		items, runErr := batch.Run(ctx, paths, workers, func(ctx context.Context, path string) (batchOutcome, error) {
			callStart := time.Now()
			pred, err := model.PredictFile(ctx, path)
			if err != nil {
				return batchOutcome{}, err
			}
			spinner.Update("predicting", int(done.Add(1)))
			return batchOutcome{
				latencyMs: float64(time.Since(callStart).Nanoseconds()) / 1e6,
				engineMs:  pred.PredictMs,
			}, nil
		})
		spinner.Stop()

		runId := report.RunID(start)
		rep := buildBatchReport(runId, args[0], workers, len(paths), items, time.Since(start), runErr)

		report.PrintBatchSummary(rep)

		writer := report.NewWriter(cfg.Output.Dir, runId, cfg.Output.Formats)
		exported, err := writer.ExportBatch(rep)
		if err != nil {
			cli.Failf("Failed to export results: %v", err)
		}
		for _, path := range exported {
			cli.Infof("Exported: %s", path)
		}

		if cfg.Influx.Enabled {
			influxClient := influx.NewClient(ctx, cfg.Influx)
			influxClient.WriteBatchSummary(runId, rep.ModelPath, rep.Requested, rep.Succeeded, rep.Failed, rep.Stats)
			influxClient.Close()
		}

		return runErr
	},
}

func buildBatchReport(runId, modelPath string, workers, requested int, items []batch.Item[batchOutcome], duration time.Duration, runErr error) *report.BatchReport {
	rep := &report.BatchReport{
		RunID:      runId,
		ModelPath:  modelPath,
		Workers:    workers,
		Requested:  requested,
		Succeeded:  len(items),
		DurationMs: duration.Milliseconds(),
		Items:      make([]report.BatchItem, 0, len(items)),
	}

	latencies := make([]float64, 0, len(items))
	for _, item := range items {
		rep.Items = append(rep.Items, report.BatchItem{
			Path:      item.Path,
			LatencyMs: item.Result.latencyMs,
			EngineMs:  item.Result.engineMs,
		})
		latencies = append(latencies, item.Result.latencyMs)
	}

	if summary, err := stats.Aggregate(latencies); err == nil {
		rep.Stats = summary
	}

	if runErr != nil {
		rep.Error = runErr.Error()
		var itemErr *batch.ItemError
		if errors.As(runErr, &itemErr) {
			rep.Failed = 1
		} else {
			// Not a per-item failure: the run was cut short by
			// cancellation before every file was admitted.
			rep.Cancelled = true
		}
	}

	return rep
}

// expandInputPaths flattens directory arguments one level deep; the
// usual shape is a directory of images.
func expandInputPaths(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to stat %s", arg)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", arg)
		}
		for _, entry := range entries {
			if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
				continue
			}
			paths = append(paths, filepath.Join(arg, entry.Name()))
		}
	}
	return paths, nil
}

func init() {
	RootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "max in-flight predictions (default from config)")
}
