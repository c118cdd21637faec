package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kiwari-pos/console/internal/enum"
	mw "github.com/kiwari-pos/console/internal/middleware"
	"github.com/kiwari-pos/console/internal/profile"
)

// ProfileManager defines the profile operations the handlers need.
// Satisfied by *profile.Manager; narrow interface for testability.
type ProfileManager interface {
	Current() (profile.Profile, bool)
	Load(ctx context.Context) error
	Save(ctx context.Context, p profile.Profile) (profile.Profile, error)
}

// ProfileHandler handles the restaurant profile endpoints.
type ProfileHandler struct {
	profile ProfileManager
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(p ProfileManager) *ProfileHandler {
	return &ProfileHandler{profile: p}
}

// RegisterRoutes registers profile endpoints on the given Chi router.
// Expected to be mounted at /profile inside an authenticated group.
// Only owners may change the profile.
func (h *ProfileHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Get)
	r.With(mw.RequireRole(enum.RoleOwner)).Put("/", h.Update)
}

// Get returns the profile, loading it from the backend on first use.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := h.profile.Current()
	if !ok {
		if err := h.profile.Load(r.Context()); err != nil {
			writeError(w, "load profile", err)
			return
		}
		p, _ = h.profile.Current()
	}
	writeJSON(w, http.StatusOK, p)
}

// Update validates and saves the whole profile.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req profile.Profile
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	saved, err := h.profile.Save(r.Context(), req)
	if err != nil {
		writeError(w, "save profile", err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}
