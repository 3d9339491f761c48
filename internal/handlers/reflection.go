package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/nabburi/15MinClarity/internal/middleware"
	"github.com/nabburi/15MinClarity/internal/services"
)

type ReflectionHandler struct {
	service *services.ReflectionService
}

func NewReflectionHandler(service *services.ReflectionService) *ReflectionHandler {
	return &ReflectionHandler{service: service}
}

func (h *ReflectionHandler) Eligibility(w http.ResponseWriter, r *http.Request) {
	participant := middleware.GetParticipant(r.Context())

	eligibility, err := h.service.Eligibility(r.Context(), participant.ID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, eligibility)
}

func (h *ReflectionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	participant := middleware.GetParticipant(r.Context())

	var req struct {
		ComparisonToDayOne string `json:"comparison_to_day_one"`
		WouldContinue      string `json:"would_continue"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	reflection, err := h.service.Submit(r.Context(), participant.ID, req.ComparisonToDayOne, req.WouldContinue)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"reflection": reflection,
	})
}
