package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nabburi/15MinClarity/internal/middleware"
)

// signOutTTL should outlive the longest-lived token the identity provider
// issues; after that the denylist entry is dead weight anyway.
const signOutTTL = 24 * time.Hour

type AuthHandler struct {
	rdb *redis.Client
}

func NewAuthHandler(rdb *redis.Client) *AuthHandler {
	return &AuthHandler{rdb: rdb}
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	participant := middleware.GetParticipant(r.Context())
	writeJSON(w, http.StatusOK, map[string]interface{}{"participant": participant})
}

// Logout denylists the presented token so it stops working before expiry.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Missing bearer token", r))
		return
	}

	key := middleware.SignOutKeyPrefix + middleware.TokenHash(parts[1])
	if err := h.rdb.Set(r.Context(), key, "1", signOutTTL).Err(); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to sign out", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Signed out"})
}
