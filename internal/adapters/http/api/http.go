// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/drawscope/internal/domain/analysis"
	"github.com/okian/drawscope/internal/domain/types"
)

// defaultMaxTop caps ?top when the server is built without WithMaxTop.
const defaultMaxTop = 10

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Analyze runs one analysis; zero option fields take service defaults.
	Analyze(ctx context.Context, query string, opts analysis.Options) (types.Analysis, error)

	// Groups lists the digit-group table.
	Groups() []types.Group

	// Ready reports whether a dataset has been loaded.
	Ready() bool

	StatsProvider
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	readyHandler   *ReadyHandler
	statsHandler   *StatsHandler
	analyzeHandler *AnalyzeHandler
	groupsHandler  *GroupsHandler
}

// ServerOption applies a configuration option to the Server.
type ServerOption func(*serverOptions)

type serverOptions struct {
	maxTop int
}

// WithMaxTop caps the ?top parameter of /analyze.
func WithMaxTop(n int) ServerOption {
	return func(o *serverOptions) {
		if n > 0 {
			o.maxTop = n
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...ServerOption) *Server {
	o := serverOptions{maxTop: defaultMaxTop}
	for _, opt := range opts {
		opt(&o)
	}
	return &Server{
		healthHandler:  NewHealthHandler(),
		readyHandler:   NewReadyHandler(deps),
		statsHandler:   NewStatsHandler(deps),
		analyzeHandler: NewAnalyzeHandler(deps, o.maxTop),
		groupsHandler:  NewGroupsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/readyz", MetricsMiddleware(s.readyHandler.HandleReady, "readyz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/analyze", MetricsMiddleware(s.analyzeHandler.HandleAnalyze, "analyze"))
	mux.HandleFunc("/groups", MetricsMiddleware(s.groupsHandler.HandleGroups, "groups"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
