package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/nabburi/15MinClarity/internal/middleware"
	"github.com/nabburi/15MinClarity/internal/models"
	"github.com/nabburi/15MinClarity/internal/services"
)

type SessionHandler struct {
	service *services.SessionService
}

func NewSessionHandler(service *services.SessionService) *SessionHandler {
	return &SessionHandler{service: service}
}

// Today reports which step the participant is on, for idempotent re-entry.
func (h *SessionHandler) Today(w http.ResponseWriter, r *http.Request) {
	participant := middleware.GetParticipant(r.Context())

	state, err := h.service.Today(r.Context(), participant.ID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	participant := middleware.GetParticipant(r.Context())

	var req struct {
		PreScore *int `json:"pre_score"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if req.PreScore == nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "pre_score is required", r))
		return
	}

	session, err := h.service.StartToday(r.Context(), participant, *req.PreScore)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"session": session,
		"step":    "practicing",
		"blocks":  services.PracticeBlocks(session.Variant),
	})
}

// Recent returns the last week of completed sessions for the streak view.
func (h *SessionHandler) Recent(w http.ResponseWriter, r *http.Request) {
	participant := middleware.GetParticipant(r.Context())

	sessions, err := h.service.RecentCompleted(r.Context(), participant.ID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if sessions == nil {
		sessions = []models.Session{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": sessions})
}

func (h *SessionHandler) Finish(w http.ResponseWriter, r *http.Request) {
	participant := middleware.GetParticipant(r.Context())

	var req struct {
		PostScore *int `json:"post_score"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if req.PostScore == nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "post_score is required", r))
		return
	}

	session, err := h.service.FinishToday(r.Context(), participant.ID, *req.PostScore)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session": session,
		"step":    "done",
		"delta":   session.Delta,
	})
}
