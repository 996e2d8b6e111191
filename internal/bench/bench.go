// Package bench drives warmup and measured inference runs against a
// loaded model and aggregates the resulting latencies.
package bench

import (
	"context"
	"fmt"
	"time"

	"mlrunner/internal/runtime"
	"mlrunner/internal/stats"
)

// Sample is one measured inference call.
type Sample struct {
	Offset    time.Duration `json:"-"`         // since the measured phase started
	OffsetMs  float64       `json:"offset_ms"` // same, in milliseconds for export
	LatencyMs float64       `json:"latency_ms"`
	EngineMs  float64       `json:"engine_ms"` // engine-reported predict time
}

// Options controls a benchmark run.
type Options struct {
	Runs   int
	Warmup int
	Inputs map[string]runtime.Value

	// OnWarmup and OnSample report progress; either may be nil.
	OnWarmup func(done int)
	OnSample func(done int, s Sample)
}

// Result is the outcome of one benchmark run against one model.
type Result struct {
	ModelPath    string                `json:"model_path"`
	ModelName    string                `json:"model_name"`
	ComputeUnits runtime.ComputeUnits  `json:"compute_units"`
	StartTime    time.Time             `json:"start_time"`
	Duration     time.Duration         `json:"-"`
	DurationMs   int64                 `json:"duration_ms"`
	Runs         int                   `json:"runs"`
	Warmup       int                   `json:"warmup"`
	Stats        stats.Summary         `json:"stats"`
	Samples      []Sample              `json:"samples,omitempty"`
}

// Run executes opts.Warmup discarded calls followed by opts.Runs
// measured calls, sequentially. Latency benchmarking is deliberately
// single-stream: concurrent calls would measure queueing, not the
// model.
func Run(ctx context.Context, model *runtime.Model, modelPath string, opts Options) (*Result, error) {
	if opts.Runs < 1 {
		return nil, fmt.Errorf("bench: runs must be >= 1, got %d", opts.Runs)
	}

	result := &Result{
		ModelPath:    modelPath,
		ModelName:    model.Metadata().Name,
		ComputeUnits: model.Metadata().ComputeUnits,
		StartTime:    time.Now(),
		Runs:         opts.Runs,
		Warmup:       opts.Warmup,
	}

	for i := range opts.Warmup {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, err := model.Predict(ctx, opts.Inputs); err != nil {
			return nil, fmt.Errorf("warmup run %d: %w", i+1, err)
		}
		if opts.OnWarmup != nil {
			opts.OnWarmup(i + 1)
		}
	}

	result.Samples = make([]Sample, 0, opts.Runs)
	measuredStart := time.Now()

	for i := range opts.Runs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()
		pred, err := model.Predict(ctx, opts.Inputs)
		if err != nil {
			return nil, fmt.Errorf("measured run %d: %w", i+1, err)
		}
		elapsed := time.Since(start)

		s := Sample{
			Offset:    start.Sub(measuredStart),
			OffsetMs:  float64(start.Sub(measuredStart).Nanoseconds()) / 1e6,
			LatencyMs: float64(elapsed.Nanoseconds()) / 1e6,
			EngineMs:  pred.PredictMs,
		}
		result.Samples = append(result.Samples, s)
		if opts.OnSample != nil {
			opts.OnSample(i+1, s)
		}
	}

	result.Duration = time.Since(result.StartTime)
	result.DurationMs = result.Duration.Milliseconds()

	latencies := make([]float64, len(result.Samples))
	for i, s := range result.Samples {
		latencies[i] = s.LatencyMs
	}
	summary, err := stats.Aggregate(latencies)
	if err != nil {
		return nil, fmt.Errorf("aggregate latencies: %w", err)
	}
	result.Stats = summary

	return result, nil
}
