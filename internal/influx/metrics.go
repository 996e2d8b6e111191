package influx

import (
	"time"

	"github.com/InfluxCommunity/influxdb3-go/influxdb3"

	"mlrunner/internal/bench"
	"mlrunner/internal/stats"
)

const writeBatchSize = 5000

// WriteLatencySamples exports every measured inference as one point.
// Point timestamps are spaced a microsecond apart so Influx keeps them
// distinct even when the wall clock does not.
func (c *Client) WriteLatencySamples(runId, model, units string, samples []bench.Sample) {
	if c == nil {
		return
	}

	baseTime := time.Now()
	points := make([]*influxdb3.Point, 0, writeBatchSize)
	for i, s := range samples {
		if c.ctx != nil && c.ctx.Err() != nil {
			return
		}
		points = append(points, influxdb3.NewPoint(
			"inference_latency",
			map[string]string{
				"run_id":        runId,
				"model":         model,
				"compute_units": units,
			},
			map[string]any{
				"offset_ms":  s.OffsetMs,
				"latency_ms": s.LatencyMs,
				"engine_ms":  s.EngineMs,
			},
			baseTime.Add(time.Duration(i)*time.Microsecond),
		))
		if len(points) >= writeBatchSize {
			c.writePoints(points)
			points = points[:0]
		}
	}
	c.writePoints(points)
}

// WriteRunSummary exports the aggregated statistics of one run.
func (c *Client) WriteRunSummary(runId, model, units string, s stats.Summary) {
	if c == nil {
		return
	}

	c.WritePoint("run_summary",
		map[string]string{
			"run_id":        runId,
			"model":         model,
			"compute_units": units,
		},
		map[string]any{
			"count":              s.Count,
			"mean_ms":            s.Mean,
			"min_ms":             s.Min,
			"max_ms":             s.Max,
			"stddev_ms":          s.StdDev,
			"p50_ms":             s.P50,
			"p95_ms":             s.P95,
			"p99_ms":             s.P99,
			"throughput_per_sec": s.PerSecond,
		},
		time.Now(),
	)
}

// WriteBatchSummary exports the totals of one batch run.
func (c *Client) WriteBatchSummary(runId, model string, requested, succeeded, failed int, s stats.Summary) {
	if c == nil {
		return
	}

	c.WritePoint("batch_summary",
		map[string]string{
			"run_id": runId,
			"model":  model,
		},
		map[string]any{
			"requested":          requested,
			"succeeded":          succeeded,
			"failed":             failed,
			"mean_ms":            s.Mean,
			"throughput_per_sec": s.PerSecond,
		},
		time.Now(),
	)
}
