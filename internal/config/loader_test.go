package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"mlrunner/internal/runtime"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mlrunner.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "runtime:\n  url: http://localhost:9999\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Runtime.URL != "http://localhost:9999" {
		t.Errorf("Runtime.URL = %q", cfg.Runtime.URL)
	}
	if cfg.Runtime.TimeoutDuration != 2*time.Minute {
		t.Errorf("TimeoutDuration = %v, want 2m", cfg.Runtime.TimeoutDuration)
	}
	if cfg.Runtime.Units != runtime.ComputeAll {
		t.Errorf("Units = %q, want all", cfg.Runtime.Units)
	}
	if cfg.Bench.Runs != DefaultRuns || cfg.Bench.Warmup != DefaultWarmupRuns {
		t.Errorf("bench defaults = %d/%d", cfg.Bench.Runs, cfg.Bench.Warmup)
	}
	if cfg.Batch.Workers != DefaultBatchWorkers {
		t.Errorf("Batch.Workers = %d", cfg.Batch.Workers)
	}
	if len(cfg.Output.Formats) != 1 || cfg.Output.Formats[0] != "json" {
		t.Errorf("Output.Formats = %v", cfg.Output.Formats)
	}
}

func TestLoadParsesFullConfig(t *testing.T) {
	path := writeConfig(t, `
runtime:
  url: http://localhost:11711
  timeout: 30s
  compute_units: cpu
bench:
  runs: 50
  warmup: 5
  cooldown: 2s
batch:
  workers: 8
output:
  dir: out
  formats: [json, csv]
influx:
  enabled: true
  url: http://localhost:8181
  database: bench
  token: secret
stream:
  enabled: true
  url: ws://localhost:7070/live
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Runtime.Units != runtime.ComputeCPUOnly {
		t.Errorf("Units = %q, want cpu", cfg.Runtime.Units)
	}
	if cfg.Bench.CooldownDuration != 2*time.Second {
		t.Errorf("CooldownDuration = %v", cfg.Bench.CooldownDuration)
	}
	if cfg.Batch.Workers != 8 {
		t.Errorf("Batch.Workers = %d", cfg.Batch.Workers)
	}
	if len(cfg.Output.Formats) != 2 {
		t.Errorf("Output.Formats = %v", cfg.Output.Formats)
	}
}

func TestLoadMissingDefaultFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	orig, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(orig) })

	cfg, err := Load(DefaultConfigFile)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Runtime.URL != runtime.DefaultBaseURL {
		t.Errorf("Runtime.URL = %q", cfg.Runtime.URL)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"bad compute units": "runtime:\n  compute_units: npu\n",
		"bad timeout":       "runtime:\n  timeout: soon\n",
		"bad format":        "output:\n  formats: [xml]\n",
		"influx no token":   "influx:\n  enabled: true\n",
		"stream http url":   "stream:\n  enabled: true\n  url: http://localhost:7070\n",
	}

	for name, content := range cases {
		if _, err := Load(writeConfig(t, content)); err == nil {
			t.Errorf("%s: Load() error = nil, want error", name)
		}
	}
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() error = nil for missing explicit file")
	}
}
