package runtime

import (
	"context"

	"github.com/pkg/errors"
)

// Model is a handle to a model the engine has loaded. It is an explicit
// value threaded through every call, so several models can be held
// concurrently without shared state.
type Model struct {
	client *Client
	id     string
	meta   Metadata
}

func (m *Model) ID() string { return m.id }

func (m *Model) Metadata() Metadata { return m.meta }

type predictRequest struct {
	ModelID string           `json:"model_id"`
	Inputs  map[string]Value `json:"inputs"`
}

// Prediction holds one inference's typed outputs and the engine-side
// latency in milliseconds.
type Prediction struct {
	Outputs   map[string]Value `json:"outputs"`
	PredictMs float64          `json:"predict_ms"`
}

// Predict runs a single inference. Input feature marshalling (tensors,
// pixel buffers) is the engine's concern; inputs here are already typed
// feature values.
func (m *Model) Predict(ctx context.Context, inputs map[string]Value) (*Prediction, error) {
	var res Prediction
	if err := m.client.post(ctx, "/api/predict", predictRequest{ModelID: m.id, Inputs: inputs}, &res); err != nil {
		return nil, errors.Wrapf(err, "predict with model %s", m.id)
	}
	return &res, nil
}

// PredictFile runs a single inference on one input file, letting the
// engine decode and marshal the file contents itself.
func (m *Model) PredictFile(ctx context.Context, path string) (*Prediction, error) {
	return m.Predict(ctx, map[string]Value{"file": StringValue(path)})
}

// Close releases the engine-side model. The handle must not be used
// afterwards.
func (m *Model) Close(ctx context.Context) error {
	if err := m.client.post(ctx, "/api/unload", unloadRequest{ModelID: m.id}, nil); err != nil {
		return errors.Wrapf(err, "unload model %s", m.id)
	}
	return nil
}
