package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	mw "github.com/kiwari-pos/console/internal/middleware"
)

// AuthHandler reports who the caller's token identifies. Tokens are issued
// by the backend; the console never logs anyone in.
type AuthHandler struct{}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// RegisterRoutes registers /me inside an authenticated group.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/me", h.Me)
}

type meResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	RestaurantID uuid.UUID `json:"restaurant_id"`
	Role         string    `json:"role"`
}

// Me returns the caller's identity so the shell can hide owner-only actions.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := mw.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}
	writeJSON(w, http.StatusOK, meResponse{
		UserID:       claims.UserID,
		RestaurantID: claims.RestaurantID,
		Role:         claims.Role,
	})
}
