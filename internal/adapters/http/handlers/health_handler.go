package handlers

import (
	"net/http"

	"github.com/jsamuelsen11/todo-api/internal/ports"
)

// Probe status values.
const (
	probeOK       = "ok"
	probeReady    = "ready"
	probeNotReady = "not_ready"
)

// probeResponse is the body of both health endpoints. Checks maps each
// registered component to "ok" or its failure message.
type probeResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	registry ports.HealthRegistry
}

// NewHealthHandler creates a HealthHandler backed by registry.
func NewHealthHandler(registry ports.HealthRegistry) *HealthHandler {
	return &HealthHandler{registry: registry}
}

// Liveness handles GET /health/live. The process answering is enough.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, probeResponse{Status: probeOK})
}

// Readiness handles GET /health/ready: 200 when every registered component
// is healthy, 503 otherwise. A closed todo store makes the service not ready.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	resp := probeResponse{Status: probeReady, Checks: map[string]string{}}
	code := http.StatusOK

	for name, err := range h.registry.CheckAll(r.Context()) {
		if err == nil {
			resp.Checks[name] = probeOK
			continue
		}
		resp.Checks[name] = err.Error()
		resp.Status = probeNotReady
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, code, resp)
}
