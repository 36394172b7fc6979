package api

import (
	"net/http"

	"github.com/okian/drawscope/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	metrics http.Handler
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{
		metrics: promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}),
	}
}

// HandleHealth handles GET /healthz requests by serving the Prometheus
// registry. A response means the process is alive.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.metrics.ServeHTTP(w, r)
}

// ReadinessProvider reports whether the dataset is loaded.
type ReadinessProvider interface {
	Ready() bool
	StatsProvider
}

// ReadyHandler handles readiness probes.
type ReadyHandler struct {
	deps ReadinessProvider
}

// NewReadyHandler creates a new readiness handler.
func NewReadyHandler(deps ReadinessProvider) *ReadyHandler {
	return &ReadyHandler{deps: deps}
}

type readyResponse struct {
	Status  string `json:"status"`
	State   string `json:"state"`
	Records int    `json:"records"`
	Latest  string `json:"latest_date,omitempty"`
	Error   string `json:"error,omitempty"`
}

// HandleReady handles GET /readyz requests: 200 once a dataset is loaded,
// 503 before that or after a failed first load.
func (h *ReadyHandler) HandleReady(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	st := h.deps.GetStats()
	resp := readyResponse{State: st.State, Records: st.Records, Latest: st.LatestDate, Error: st.LastError}
	if !h.deps.Ready() {
		resp.Status = "not_ready"
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	resp.Status = "ready"
	writeJSON(w, http.StatusOK, resp)
}
