package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"slices"
	"strings"
	"time"

	"go.yaml.in/yaml/v4"

	"mlrunner/internal/runtime"
)

const (
	DefaultConfigFile   = "mlrunner.yaml"
	DefaultTimeout      = "2m"
	DefaultComputeUnits = "all"
	DefaultRuns         = 100
	DefaultWarmupRuns   = 10
	DefaultBatchWorkers = 4
	DefaultOutputDir    = "results"

	DefaultInfluxURL      = "http://localhost:8086"
	DefaultInfluxDatabase = "mlrunner"
)

var validFormats = []string{"json", "csv"}

// Load reads the YAML config at filename and applies defaults and
// validation. A missing DefaultConfigFile is not an error: the built-in
// defaults are used. An explicitly named file must exist.
func Load(filename string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(filename) //nolint:gosec // config file path is controlled
	switch {
	case err == nil:
		if err = yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case os.IsNotExist(err) && filename == DefaultConfigFile:
		// Defaults only.
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := applyDefaults(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) error {
	if cfg == nil {
		return errors.New("configuration is nil")
	}

	if strings.TrimSpace(cfg.Runtime.URL) == "" {
		cfg.Runtime.URL = runtime.DefaultBaseURL
	}
	if _, err := url.Parse(cfg.Runtime.URL); err != nil {
		return fmt.Errorf("runtime url: %w", err)
	}

	if strings.TrimSpace(cfg.Runtime.Timeout) == "" {
		cfg.Runtime.Timeout = DefaultTimeout
	}
	timeout, err := time.ParseDuration(cfg.Runtime.Timeout)
	if err != nil {
		return fmt.Errorf("runtime timeout: %w", err)
	}
	if timeout <= 0 {
		return errors.New("runtime timeout must be > 0")
	}
	cfg.Runtime.TimeoutDuration = timeout

	if strings.TrimSpace(cfg.Runtime.ComputeUnits) == "" {
		cfg.Runtime.ComputeUnits = DefaultComputeUnits
	}
	units, err := runtime.ParseComputeUnits(cfg.Runtime.ComputeUnits)
	if err != nil {
		return fmt.Errorf("runtime compute_units: %w", err)
	}
	cfg.Runtime.Units = units

	if cfg.Bench.Runs <= 0 {
		cfg.Bench.Runs = DefaultRuns
	}
	if cfg.Bench.Warmup < 0 {
		return errors.New("bench warmup must be >= 0")
	}
	if cfg.Bench.Warmup == 0 {
		cfg.Bench.Warmup = DefaultWarmupRuns
	}

	if strings.TrimSpace(cfg.Bench.Cooldown) != "" {
		cooldown, cooldownErr := time.ParseDuration(cfg.Bench.Cooldown)
		if cooldownErr != nil {
			return fmt.Errorf("bench cooldown: %w", cooldownErr)
		}
		if cooldown < 0 {
			return errors.New("bench cooldown must be >= 0")
		}
		cfg.Bench.CooldownDuration = cooldown
	}

	if cfg.Batch.Workers <= 0 {
		cfg.Batch.Workers = DefaultBatchWorkers
	}

	if strings.TrimSpace(cfg.Output.Dir) == "" {
		cfg.Output.Dir = DefaultOutputDir
	}
	if len(cfg.Output.Formats) == 0 {
		cfg.Output.Formats = []string{"json"}
	}
	for i, f := range cfg.Output.Formats {
		f = strings.ToLower(strings.TrimSpace(f))
		if !slices.Contains(validFormats, f) {
			return fmt.Errorf("output format %q (want json or csv)", cfg.Output.Formats[i])
		}
		cfg.Output.Formats[i] = f
	}

	if cfg.Influx.URL == "" {
		cfg.Influx.URL = DefaultInfluxURL
	}
	if cfg.Influx.Database == "" {
		cfg.Influx.Database = DefaultInfluxDatabase
	}
	if cfg.Influx.Enabled && strings.TrimSpace(cfg.Influx.Token) == "" {
		return errors.New("influx token is required when influx export is enabled")
	}

	if cfg.Stream.Enabled {
		u, streamErr := url.Parse(cfg.Stream.URL)
		if streamErr != nil {
			return fmt.Errorf("stream url: %w", streamErr)
		}
		if u.Scheme != "ws" && u.Scheme != "wss" {
			return fmt.Errorf("stream url must use ws or wss scheme, got %q", cfg.Stream.URL)
		}
	}

	return nil
}
