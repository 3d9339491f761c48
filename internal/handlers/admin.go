package handlers

import (
	"net/http"

	"github.com/nabburi/15MinClarity/internal/models"
	"github.com/nabburi/15MinClarity/internal/services"
)

type AdminHandler struct {
	stats *services.StatsService
}

func NewAdminHandler(stats *services.StatsService) *AdminHandler {
	return &AdminHandler{stats: stats}
}

// Stats returns the per-participant rollups. The admin allowlist check runs
// in middleware before this is reached.
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	rows, err := h.stats.CohortStats(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	if rows == nil {
		rows = []models.StatsRow{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"rows": rows})
}
