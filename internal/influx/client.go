// Package influx exports latency samples and run summaries to
// InfluxDB 3. All methods are nil-receiver safe so callers can hold a
// nil *Client when the export is disabled or unreachable.
package influx

import (
	"context"
	"time"

	"github.com/InfluxCommunity/influxdb3-go/influxdb3"

	"mlrunner/internal/cli"
	"mlrunner/internal/config"
)

// Client wraps InfluxDB write operations.
type Client struct {
	client *influxdb3.Client
	ctx    context.Context
}

// NewClient connects to InfluxDB. Returns nil when the export is
// disabled or the client cannot be created (graceful degradation).
func NewClient(ctx context.Context, cfg config.InfluxConfig) *Client {
	if !cfg.Enabled {
		return nil
	}

	client, err := influxdb3.New(influxdb3.ClientConfig{
		Host:     cfg.URL,
		Token:    cfg.Token,
		Database: cfg.Database,
	})
	if err != nil {
		cli.Warnf("InfluxDB not available at %s, sample export disabled: %v", cfg.URL, err)
		return nil
	}

	cli.Infof("InfluxDB connected: %s", cfg.URL)

	return &Client{client: client, ctx: ctx}
}

// Close closes the connection.
func (c *Client) Close() {
	if c == nil {
		return
	}
	if err := c.client.Close(); err != nil {
		cli.Warnf("InfluxDB close error: %v", err)
	}
}

// WritePoint writes a single point.
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]any, ts time.Time) {
	if c == nil {
		return
	}
	c.writePoints([]*influxdb3.Point{influxdb3.NewPoint(measurement, tags, fields, ts)})
}

func (c *Client) writePoints(points []*influxdb3.Point) {
	if c == nil || len(points) == 0 {
		return
	}
	if err := c.client.WritePoints(c.ctx, points); err != nil {
		cli.Warnf("InfluxDB write error: %v", err)
	}
}
