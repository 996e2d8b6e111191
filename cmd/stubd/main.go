// stubd is a stand-in engine daemon for development and demos. It
// speaks the same REST API as the real engine but serves canned models
// with a simulated, configurable inference latency.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"math/rand/v2"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"mlrunner/internal/runtime"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeResponse(w, status, errorResponse{Error: message})
}

type engine struct {
	mu      sync.Mutex
	models  map[string]runtime.Metadata
	latency time.Duration
	jitter  time.Duration
}

func newEngine(latency, jitter time.Duration) *engine {
	return &engine{
		models:  make(map[string]runtime.Metadata),
		latency: latency,
		jitter:  jitter,
	}
}

func (e *engine) sleep() float64 {
	d := e.latency
	if e.jitter > 0 {
		d += time.Duration(rand.Int64N(int64(e.jitter)))
	}
	time.Sleep(d)
	return float64(d.Nanoseconds()) / 1e6
}

func (e *engine) handleCompile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ModelPath string `json:"model_path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ModelPath == "" {
		writeError(w, http.StatusBadRequest, "model_path is required")
		return
	}

	ms := e.sleep()
	compiled := strings.TrimSuffix(req.ModelPath, filepath.Ext(req.ModelPath)) + ".compiled"
	writeResponse(w, http.StatusOK, runtime.CompileResult{CompiledPath: compiled, CompileMs: ms})
}

func (e *engine) handleLoad(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ModelPath    string               `json:"model_path"`
		ComputeUnits runtime.ComputeUnits `json:"compute_units"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ModelPath == "" {
		writeError(w, http.StatusBadRequest, "model_path is required")
		return
	}
	units, err := runtime.ParseComputeUnits(string(req.ComputeUnits))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	name := strings.TrimSuffix(filepath.Base(req.ModelPath), filepath.Ext(req.ModelPath))
	meta := runtime.Metadata{
		Name:         name,
		Format:       "stub",
		Version:      "1.0",
		Author:       "stubd",
		ComputeUnits: units,
		Inputs:       []runtime.FeatureDesc{{Name: "image", Type: "image", Shape: []int64{3, 224, 224}}},
		Outputs: []runtime.FeatureDesc{
			{Name: "label", Type: "string"},
			{Name: "probability", Type: "double"},
		},
	}

	id := uuid.NewString()
	e.mu.Lock()
	e.models[id] = meta
	e.mu.Unlock()

	writeResponse(w, http.StatusOK, map[string]any{"model_id": id, "metadata": meta})
}

func (e *engine) handleUnload(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ModelID string `json:"model_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e.mu.Lock()
	_, ok := e.models[req.ModelID]
	delete(e.models, req.ModelID)
	e.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "unknown model")
		return
	}
	writeResponse(w, http.StatusOK, map[string]string{"status": "unloaded"})
}

func (e *engine) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ModelID string                   `json:"model_id"`
		Inputs  map[string]runtime.Value `json:"inputs"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e.mu.Lock()
	_, ok := e.models[req.ModelID]
	e.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "unknown model")
		return
	}

	ms := e.sleep()
	writeResponse(w, http.StatusOK, runtime.Prediction{
		Outputs: map[string]runtime.Value{
			"label":       runtime.StringValue("cat"),
			"probability": runtime.DoubleValue(0.93),
		},
		PredictMs: ms,
	})
}

func (e *engine) handleGetModel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	e.mu.Lock()
	meta, ok := e.models[id]
	e.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "unknown model")
		return
	}
	writeResponse(w, http.StatusOK, map[string]any{"model_id": id, "metadata": meta})
}

func main() {
	addr := flag.String("addr", ":11711", "listen address")
	latency := flag.Duration("latency", 3*time.Millisecond, "simulated inference latency")
	jitter := flag.Duration("jitter", time.Millisecond, "added uniform random latency")
	flag.Parse()

	e := newEngine(*latency, *jitter)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeResponse(w, http.StatusOK, map[string]string{"status": "healthy"})
	})
	r.Post("/api/compile", e.handleCompile)
	r.Post("/api/load", e.handleLoad)
	r.Post("/api/unload", e.handleUnload)
	r.Post("/api/predict", e.handlePredict)
	r.Get("/api/models/{id}", e.handleGetModel)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})

	log.Printf("stub engine listening on %s (latency %s ± %s)", *addr, *latency, *jitter)
	log.Fatal(http.ListenAndServe(*addr, r)) //nolint:gosec // local development daemon
}
