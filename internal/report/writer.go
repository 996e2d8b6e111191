// Package report persists benchmark and batch results to the results
// directory and prints the terminal summaries.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"mlrunner/internal/bench"
	"mlrunner/internal/stats"
)

// RunID names one invocation; it doubles as the results subdirectory
// and the Influx/stream tag.
func RunID(t time.Time) string {
	return t.UTC().Format("20060102-150405")
}

// BatchReport is the exported outcome of a batch run over many files.
type BatchReport struct {
	RunID      string        `json:"run_id"`
	ModelPath  string        `json:"model_path"`
	Workers    int           `json:"workers"`
	Requested  int           `json:"requested"`
	Succeeded  int           `json:"succeeded"`
	Failed     int           `json:"failed"`
	DurationMs int64         `json:"duration_ms"`
	Cancelled  bool          `json:"cancelled,omitempty"`
	Stats      stats.Summary `json:"stats"`
	Items      []BatchItem   `json:"items,omitempty"`
	Error      string        `json:"error,omitempty"`
}

// BatchItem is one processed input file.
type BatchItem struct {
	Path      string  `json:"path"`
	LatencyMs float64 `json:"latency_ms"`
	EngineMs  float64 `json:"engine_ms"`
}

type Writer struct {
	runId      string
	resultsDir string
	formats    []string
}

// NewWriter prepares a writer rooted at dir/<runId>. Formats come from
// config and are already validated; "json" and "csv" are understood.
func NewWriter(dir, runId string, formats []string) *Writer {
	return &Writer{
		runId:      runId,
		resultsDir: filepath.Join(dir, runId),
		formats:    formats,
	}
}

func (w *Writer) Dir() string {
	return w.resultsDir
}

// ExportBench writes the benchmark result in each configured format
// and returns the paths written.
func (w *Writer) ExportBench(result *bench.Result) ([]string, error) {
	if err := os.MkdirAll(w.resultsDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create results dir: %w", err)
	}

	base := "bench-" + sanitizeName(result.ModelName)
	var paths []string

	if slices.Contains(w.formats, "json") {
		path := filepath.Join(w.resultsDir, base+".json")
		if err := writeJSON(path, result); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}

	if slices.Contains(w.formats, "csv") {
		path := filepath.Join(w.resultsDir, base+".csv")
		if err := writeSampleCSV(path, result.Samples); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}

	return paths, nil
}

// ExportBatch writes the batch report in each configured format.
func (w *Writer) ExportBatch(report *BatchReport) ([]string, error) {
	if err := os.MkdirAll(w.resultsDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create results dir: %w", err)
	}

	var paths []string

	if slices.Contains(w.formats, "json") {
		path := filepath.Join(w.resultsDir, "batch.json")
		if err := writeJSON(path, report); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}

	if slices.Contains(w.formats, "csv") {
		path := filepath.Join(w.resultsDir, "batch.csv")
		if err := writeBatchCSV(path, report.Items); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}

	return paths, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	if err = os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	return nil
}

func writeSampleCSV(path string, samples []bench.Sample) error {
	f, err := os.Create(path) //nolint:gosec // path is constructed from controlled results directory
	if err != nil {
		return fmt.Errorf("failed to create csv: %w", err)
	}
	defer f.Close() //nolint:errcheck // flushed and checked below

	cw := csv.NewWriter(f)
	if err = cw.Write([]string{"sample", "offset_ms", "latency_ms", "engine_ms"}); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for i, s := range samples {
		record := []string{
			strconv.Itoa(i + 1),
			strconv.FormatFloat(s.OffsetMs, 'f', 3, 64),
			strconv.FormatFloat(s.LatencyMs, 'f', 3, 64),
			strconv.FormatFloat(s.EngineMs, 'f', 3, 64),
		}
		if err = cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeBatchCSV(path string, items []BatchItem) error {
	f, err := os.Create(path) //nolint:gosec // path is constructed from controlled results directory
	if err != nil {
		return fmt.Errorf("failed to create csv: %w", err)
	}
	defer f.Close() //nolint:errcheck // flushed and checked below

	cw := csv.NewWriter(f)
	if err = cw.Write([]string{"path", "latency_ms", "engine_ms"}); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, item := range items {
		record := []string{
			item.Path,
			strconv.FormatFloat(item.LatencyMs, 'f', 3, 64),
			strconv.FormatFloat(item.EngineMs, 'f', 3, 64),
		}
		if err = cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func sanitizeName(name string) string {
	if name == "" {
		return "model"
	}
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}
