package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"mlrunner/internal/bench"
	"mlrunner/internal/cli"
	"mlrunner/internal/influx"
	"mlrunner/internal/report"
	"mlrunner/internal/runtime"
	"mlrunner/internal/stream"
)

var (
	benchRuns        int
	benchWarmup      int
	benchInputsFile  string
	benchInteractive bool
	benchInflux      bool
	benchStream      bool
)

var benchCmd = &cobra.Command{
	Use:   "bench <model> [input-file]",
	Short: "Measure inference latency for a model",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		runs := benchRuns
		if runs <= 0 {
			runs = cfg.Bench.Runs
		}
		warmup := benchWarmup
		if warmup < 0 {
			warmup = cfg.Bench.Warmup
		}

		opts := cli.Options{
			Warmup: warmup > 0,
			Influx: benchInflux || cfg.Influx.Enabled,
			Stream: benchStream || cfg.Stream.Enabled,
			Runs:   runs,
		}
		if benchInteractive {
			cli.PrintBanner()
			picked, err := cli.PromptOptions(runs)
			if err != nil {
				return err
			}
			opts = *picked
			cli.PrintSummary(picked)
		}
		if !opts.Warmup {
			warmup = 0
		} else if warmup == 0 {
			warmup = cfg.Bench.Warmup
		}

		inputs, err := readInputs(benchInputsFile)
		if err != nil {
			return err
		}
		if len(args) == 2 {
			inputs = fileInputs(args[1])
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

		runId := report.RunID(time.Now())

		var influxClient *influx.Client
		if opts.Influx {
			influxCfg := cfg.Influx
			influxCfg.Enabled = true
			influxClient = influx.NewClient(ctx, influxCfg)
			defer influxClient.Close()
		}

		var publisher *stream.Publisher
		if opts.Stream {
			publisher = stream.Dial(cfg.Stream.URL, runId)
			defer publisher.Close()
		}

		spinner := cli.NewProgressSpinner()
		spinner.Start(warmup+opts.Runs, "warming up")

		result, err := bench.Run(ctx, model, args[0], bench.Options{
			Runs:   opts.Runs,
			Warmup: warmup,
			Inputs: inputs,
			OnWarmup: func(done int) {
				spinner.Update("warming up", done)
			},
			OnSample: func(done int, s bench.Sample) {
				spinner.Update("measuring", warmup+done)
				publisher.Publish(model.Metadata().Name, done, s)
			},
		})
		spinner.Stop()
		if err != nil {
			return err
		}

		report.PrintBenchSummary(result)

		writer := report.NewWriter(cfg.Output.Dir, runId, cfg.Output.Formats)
		paths, err := writer.ExportBench(result)
		if err != nil {
			cli.Failf("Failed to export results: %v", err)
		}
		for _, path := range paths {
			cli.Infof("Exported: %s", path)
		}

		if influxClient != nil {
			units := string(result.ComputeUnits)
			influxClient.WriteLatencySamples(runId, result.ModelName, units, result.Samples)
			influxClient.WriteRunSummary(runId, result.ModelName, units, result.Stats)
			cli.Infof("Exported samples to InfluxDB (run: %s)", runId)
		}

		cooldown(ctx, cfg.Bench.CooldownDuration)
		return nil
	},
}

// cooldown lets thermals settle after a run so back-to-back
// invocations do not skew each other.
func cooldown(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

// fileInputs wraps a single file path the way the engine's predict
// endpoint expects it.
func fileInputs(path string) map[string]runtime.Value {
	return map[string]runtime.Value{"file": runtime.StringValue(path)}
}

func init() {
	RootCmd.AddCommand(benchCmd)

	benchCmd.Flags().IntVar(&benchRuns, "runs", 0, "measured runs (default from config)")
	benchCmd.Flags().IntVar(&benchWarmup, "warmup", -1, "warmup runs, 0 to disable (default from config)")
	benchCmd.Flags().StringVar(&benchInputsFile, "inputs", "", "JSON file with named input values")
	benchCmd.Flags().BoolVarP(&benchInteractive, "interactive", "i", false, "pick options interactively")
	benchCmd.Flags().BoolVar(&benchInflux, "influx", false, "export per-sample latencies to InfluxDB")
	benchCmd.Flags().BoolVar(&benchStream, "stream", false, "stream samples over websocket")
}
