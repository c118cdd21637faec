package handler_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kiwari-pos/console/internal/auth"
	"github.com/kiwari-pos/console/internal/backend"
	"github.com/kiwari-pos/console/internal/enum"
	"github.com/kiwari-pos/console/internal/handler"
	"github.com/kiwari-pos/console/internal/profile"
)

type unreachableProfileStore struct{}

func (unreachableProfileStore) FetchProfile(_ context.Context) (profile.Profile, error) {
	return profile.Profile{}, errors.New("dial tcp: connection refused")
}

func (unreachableProfileStore) SaveProfile(_ context.Context, _ profile.Profile) error {
	return errors.New("dial tcp: connection refused")
}

func setupProfileRouter(store profile.Store, role string) *chi.Mux {
	m := profile.NewManager(store, 0)
	h := handler.NewProfileHandler(m)
	r := chi.NewRouter()
	r.Use(asUser(&auth.Claims{UserID: uuid.New(), RestaurantID: uuid.New(), Role: role}))
	r.Route("/profile", h.RegisterRoutes)
	return r
}

func TestProfileGet_LoadsOnFirstUse(t *testing.T) {
	router := setupProfileRouter(newMemoryStore(), enum.RoleStaff)

	rr := doRequest(t, router, "GET", "/profile", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d; body: %s", rr.Code, rr.Body.String())
	}
	if resp := decodeObject(t, rr); resp["name"] != "Trattoria Roma" {
		t.Fatalf("profile: %v", resp)
	}
}

func TestProfileGet_BackendDown(t *testing.T) {
	router := setupProfileRouter(unreachableProfileStore{}, enum.RoleStaff)

	rr := doRequest(t, router, "GET", "/profile", nil)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
}

func TestProfileUpdate_Owner(t *testing.T) {
	store := newMemoryStore()
	router := setupProfileRouter(store, enum.RoleOwner)

	p := backend.SampleProfile()
	p.Name = "Osteria Nuova"
	rr := doRequest(t, router, "PUT", "/profile", p)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d; body: %s", rr.Code, rr.Body.String())
	}
	saved, _ := store.FetchProfile(context.Background())
	if saved.Name != "Osteria Nuova" {
		t.Fatalf("store not updated: %+v", saved)
	}
}

func TestProfileUpdate_StaffForbidden(t *testing.T) {
	router := setupProfileRouter(newMemoryStore(), enum.RoleStaff)

	rr := doRequest(t, router, "PUT", "/profile", backend.SampleProfile())
	if rr.Code != http.StatusForbidden {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusForbidden)
	}
}

func TestProfileUpdate_InvalidEmail(t *testing.T) {
	router := setupProfileRouter(newMemoryStore(), enum.RoleOwner)

	p := backend.SampleProfile()
	p.Email = "nope"
	rr := doRequest(t, router, "PUT", "/profile", p)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}
