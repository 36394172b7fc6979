package api

import (
	"net/http"

	"github.com/okian/drawscope/internal/domain/types"
)

// GroupsDependencies defines the interface for listing digit groups.
type GroupsDependencies interface {
	Groups() []types.Group
}

// GroupsHandler handles digit group requests.
type GroupsHandler struct {
	deps GroupsDependencies
}

// NewGroupsHandler creates a new groups handler.
func NewGroupsHandler(deps GroupsDependencies) *GroupsHandler {
	return &GroupsHandler{deps: deps}
}

// HandleGroups handles GET /groups requests.
func (h *GroupsHandler) HandleGroups(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Groups())
}
