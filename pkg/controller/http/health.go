package http

import (
	"net/http"

	"github.com/ncn914491/folio/pkg/domain/model"
	"github.com/ncn914491/folio/pkg/domain/types"
)

// handleHealth handles health check requests
func handleHealth(w http.ResponseWriter, r *http.Request) {
	status := &model.HealthStatus{
		Status:  "healthy",
		Service: "folio",
		Version: types.Version,
	}

	writeJSON(r.Context(), w, http.StatusOK, status)
}
