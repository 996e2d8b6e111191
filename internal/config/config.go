package config

import (
	"strconv"
	"strings"
	"time"

	"mlrunner/internal/cli"
	"mlrunner/internal/runtime"
)

type Config struct {
	Runtime RuntimeConfig `yaml:"runtime"`
	Bench   BenchConfig   `yaml:"bench"`
	Batch   BatchConfig   `yaml:"batch"`
	Output  OutputConfig  `yaml:"output"`
	Influx  InfluxConfig  `yaml:"influx"`
	Stream  StreamConfig  `yaml:"stream"`
}

type RuntimeConfig struct {
	URL          string `yaml:"url"`
	Timeout      string `yaml:"timeout"`
	ComputeUnits string `yaml:"compute_units"`

	TimeoutDuration time.Duration        `yaml:"-"`
	Units           runtime.ComputeUnits `yaml:"-"`
}

type BenchConfig struct {
	Runs     int    `yaml:"runs"`
	Warmup   int    `yaml:"warmup"`
	Cooldown string `yaml:"cooldown,omitempty"`

	CooldownDuration time.Duration `yaml:"-"`
}

type BatchConfig struct {
	Workers int `yaml:"workers"`
}

type OutputConfig struct {
	Dir     string   `yaml:"dir"`
	Formats []string `yaml:"formats"`
}

type InfluxConfig struct {
	Enabled  bool   `yaml:"enabled"`
	URL      string `yaml:"url"`
	Database string `yaml:"database"`
	Token    string `yaml:"token"`
}

type StreamConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
}

func (c *Config) Print() {
	cli.Section("Configuration")

	cli.KeyValue("Engine", c.Runtime.URL)
	cli.KeyValuePairs(
		"Compute Units", c.Runtime.ComputeUnits,
		"Timeout", c.Runtime.Timeout,
	)
	cli.KeyValuePairs(
		"Runs", strconv.Itoa(c.Bench.Runs),
		"Warmup", strconv.Itoa(c.Bench.Warmup),
		"Batch Workers", strconv.Itoa(c.Batch.Workers),
	)

	exportStr := strings.Join(c.Output.Formats, ", ")
	influxStr := "disabled"
	if c.Influx.Enabled {
		influxStr = c.Influx.URL
	}
	streamStr := "disabled"
	if c.Stream.Enabled {
		streamStr = c.Stream.URL
	}
	cli.KeyValuePairs("Export", exportStr, "Influx", influxStr, "Stream", streamStr)
}
