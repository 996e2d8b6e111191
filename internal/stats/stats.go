// Package stats aggregates per-inference latency samples into
// descriptive statistics.
package stats

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// ErrInvalidSample is returned when a sample is negative or NaN.
var ErrInvalidSample = errors.New("invalid latency sample")

// Summary contains latency statistics for a set of inference calls.
// All latency fields are in milliseconds; PerSecond is inferences per
// second derived from the mean.
type Summary struct {
	Count     int     `json:"count"`
	Mean      float64 `json:"mean_ms"`
	Min       float64 `json:"min_ms"`
	Max       float64 `json:"max_ms"`
	StdDev    float64 `json:"std_dev_ms"`
	P50       float64 `json:"p50_ms"`
	P95       float64 `json:"p95_ms"`
	P99       float64 `json:"p99_ms"`
	PerSecond float64 `json:"throughput_per_sec"`
}

// Aggregate computes a Summary from latency samples in milliseconds.
// The samples slice is not modified. An empty input yields a zero
// Summary; negative or NaN samples are rejected.
func Aggregate(samples []float64) (Summary, error) {
	if len(samples) == 0 {
		return Summary{}, nil
	}

	var total float64
	for i, s := range samples {
		if math.IsNaN(s) || s < 0 {
			return Summary{}, fmt.Errorf("%w: sample %d is %v", ErrInvalidSample, i, s)
		}
		total += s
	}

	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	slices.Sort(sorted)

	n := float64(len(samples))
	mean := total / n

	var sumSq float64
	for _, s := range samples {
		d := s - mean
		sumSq += d * d
	}
	stdDev := math.Sqrt(sumSq / n)

	var perSecond float64
	if mean > 0 {
		perSecond = 1000 / mean
	}

	return Summary{
		Count:     len(samples),
		Mean:      mean,
		Min:       sorted[0],
		Max:       sorted[len(sorted)-1],
		StdDev:    stdDev,
		P50:       Percentile(sorted, 0.50),
		P95:       Percentile(sorted, 0.95),
		P99:       Percentile(sorted, 0.99),
		PerSecond: perSecond,
	}, nil
}

// Percentile returns the p-th percentile (p in [0,1]) from a sorted
// slice using the nearest-rank index floor((N-1)*p). No interpolation
// between adjacent ranks; results must stay bit-compatible with prior
// exports.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	idx := int(math.Floor(float64(len(sorted)-1) * p))
	return sorted[idx]
}
