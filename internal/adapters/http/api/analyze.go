package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/drawscope/internal/domain/analysis"
	"github.com/okian/drawscope/internal/domain/match"
	"github.com/okian/drawscope/internal/domain/types"
)

// AnalyzeDependencies defines the interface for analysis operations.
type AnalyzeDependencies interface {
	Analyze(ctx context.Context, query string, opts analysis.Options) (types.Analysis, error)
}

// AnalyzeHandler handles analysis requests.
type AnalyzeHandler struct {
	deps   AnalyzeDependencies
	maxTop int
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(deps AnalyzeDependencies, maxTop int) *AnalyzeHandler {
	return &AnalyzeHandler{deps: deps, maxTop: maxTop}
}

// HandleAnalyze handles GET /analyze?q=310&mode=contains&window=14&top=4&all=false.
func (h *AnalyzeHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	const op = "api.analyze"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	params := r.URL.Query()
	query := strings.TrimSpace(params.Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "invalid_query", NewKind(op, ErrMissingQuery))
		return
	}

	opts, code, err := h.parseOptions(op, params.Get)
	if err != nil {
		writeError(w, http.StatusBadRequest, code, err)
		return
	}

	out, err := h.deps.Analyze(r.Context(), query, opts)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, out)
	case errors.Is(err, analysis.ErrInvalidQuery):
		writeError(w, http.StatusBadRequest, "invalid_query", Wrap(op, err))
	case errors.Is(err, analysis.ErrInvalidMode):
		writeError(w, http.StatusBadRequest, "invalid_mode", Wrap(op, err))
	case errors.Is(err, analysis.ErrNoData):
		writeError(w, http.StatusServiceUnavailable, "no_data", WrapKind(op, ErrNotReady, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrInternal, err))
	}
}

// parseOptions reads the optional parameters. Absent parameters stay zero so
// the service applies its defaults.
func (h *AnalyzeHandler) parseOptions(op string, get func(string) string) (analysis.Options, string, error) {
	var opts analysis.Options

	if v := get("mode"); v != "" {
		mode, err := match.ParseMode(v)
		if err != nil {
			return opts, "invalid_mode", Wrap(op, err)
		}
		opts.Mode = mode
	}
	if v := get("window"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return opts, "bad_request", WrapKind(op, ErrBadRequest, errors.New("window must be a positive integer"))
		}
		opts.WindowDays = n
	}
	if v := get("top"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return opts, "bad_request", WrapKind(op, ErrBadRequest, errors.New("top must be a positive integer"))
		}
		if n > h.maxTop {
			return opts, "bad_request", NewKind(op, ErrTopExceeded)
		}
		opts.TopN = n
	}
	if v := get("all"); v != "" {
		all, err := strconv.ParseBool(v)
		if err != nil {
			return opts, "bad_request", WrapKind(op, ErrBadRequest, errors.New("all must be a boolean"))
		}
		opts.AllGroups = all
	}
	return opts, "", nil
}
