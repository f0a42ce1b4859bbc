package http

import (
	"net/http"

	"github.com/ncn914491/folio/pkg/domain/interfaces"
)

// ProjectsHandler serves the project feed
type ProjectsHandler struct {
	feedUC interfaces.FeedUseCase
}

// NewProjectsHandler creates a new ProjectsHandler
func NewProjectsHandler(feedUC interfaces.FeedUseCase) *ProjectsHandler {
	return &ProjectsHandler{feedUC: feedUC}
}

// List returns the current feed. Source failures never reach this endpoint; an
// unavailable feed is simply empty.
func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, h.feedUC.Feed())
}
