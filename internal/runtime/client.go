// Package runtime is the HTTP client for the on-device engine daemon.
// The daemon owns model parsing, compilation and inference; this
// package only ships file paths and configuration to it and reads back
// typed results.
package runtime

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const DefaultBaseURL = "http://localhost:11711"

// ComputeUnits selects which hardware units the engine may schedule on.
type ComputeUnits string

const (
	ComputeAll       ComputeUnits = "all"
	ComputeCPUOnly   ComputeUnits = "cpu"
	ComputeCPUAndGPU ComputeUnits = "cpu_gpu"
)

// ParseComputeUnits validates a compute-units spelling from config or
// flags.
func ParseComputeUnits(s string) (ComputeUnits, error) {
	switch ComputeUnits(s) {
	case ComputeAll, ComputeCPUOnly, ComputeCPUAndGPU:
		return ComputeUnits(s), nil
	case "":
		return ComputeAll, nil
	}
	return "", errors.Errorf("invalid compute units %q (want all, cpu or cpu_gpu)", s)
}

// FeatureDesc describes one model input or output feature.
type FeatureDesc struct {
	Name  string  `json:"name"`
	Type  string  `json:"type"`
	Shape []int64 `json:"shape,omitempty"`
}

// Metadata is the model description reported by the engine at load time.
type Metadata struct {
	Name         string        `json:"name"`
	Format       string        `json:"format"`
	Version      string        `json:"version,omitempty"`
	Author       string        `json:"author,omitempty"`
	ComputeUnits ComputeUnits  `json:"compute_units"`
	Inputs       []FeatureDesc `json:"inputs"`
	Outputs      []FeatureDesc `json:"outputs"`
}

// CompileResult reports where the engine placed a compiled model and
// how long compilation took.
type CompileResult struct {
	CompiledPath string  `json:"compiled_path"`
	CompileMs    float64 `json:"compile_ms"`
}

// Client talks to a local engine daemon over its REST API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient returns a Client for the daemon at baseURL. A zero timeout
// leaves the HTTP client without a deadline; per-call deadlines come
// from the context.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

type compileRequest struct {
	ModelPath string `json:"model_path"`
}

type loadRequest struct {
	ModelPath    string       `json:"model_path"`
	ComputeUnits ComputeUnits `json:"compute_units"`
}

type loadResponse struct {
	ModelID  string   `json:"model_id"`
	Metadata Metadata `json:"metadata"`
}

type unloadRequest struct {
	ModelID string `json:"model_id"`
}

type apiError struct {
	Error string `json:"error"`
}

// Compile asks the engine to compile the model package at modelPath
// into its on-device format.
func (c *Client) Compile(ctx context.Context, modelPath string) (*CompileResult, error) {
	var res CompileResult
	if err := c.post(ctx, "/api/compile", compileRequest{ModelPath: modelPath}, &res); err != nil {
		return nil, errors.Wrapf(err, "compile %s", modelPath)
	}
	return &res, nil
}

// Load loads the model at modelPath and returns an exclusively-owned
// handle. The handle must be released with Model.Close.
func (c *Client) Load(ctx context.Context, modelPath string, units ComputeUnits) (*Model, error) {
	if units == "" {
		units = ComputeAll
	}
	var res loadResponse
	if err := c.post(ctx, "/api/load", loadRequest{ModelPath: modelPath, ComputeUnits: units}, &res); err != nil {
		return nil, errors.Wrapf(err, "load %s", modelPath)
	}
	if res.ModelID == "" {
		return nil, errors.New("engine returned an empty model id")
	}
	return &Model{client: c, id: res.ModelID, meta: res.Metadata}, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "engine request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 64<<20))
	if err != nil {
		return errors.Wrap(err, "read response")
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
			return errors.Errorf("engine: %s (status %d)", apiErr.Error, resp.StatusCode)
		}
		return errors.Errorf("engine returned status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return errors.Wrap(err, "unmarshal response")
	}
	return nil
}
