package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kiwari-pos/console/internal/auth"
	"github.com/kiwari-pos/console/internal/enum"
	"github.com/kiwari-pos/console/internal/middleware"
)

const testSecret = "test-secret"

func token(t *testing.T, restaurantID uuid.UUID, role string) string {
	t.Helper()
	tok, err := auth.GenerateToken(testSecret, uuid.New(), restaurantID, role, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return tok
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func serve(h http.Handler, bearer string) int {
	req := httptest.NewRequest("GET", "/", nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr.Code
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	userID := uuid.New()
	tok, _ := auth.GenerateToken(testSecret, userID, uuid.New(), enum.RoleStaff, time.Hour)

	handler := middleware.Authenticate(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := middleware.ClaimsFromContext(r.Context())
		if claims == nil {
			t.Fatal("expected claims in context")
		}
		if claims.UserID != userID {
			t.Errorf("user ID: got %v, want %v", claims.UserID, userID)
		}
		w.WriteHeader(http.StatusOK)
	}))

	if code := serve(handler, tok); code != http.StatusOK {
		t.Errorf("status: got %d, want %d", code, http.StatusOK)
	}
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	handler := middleware.Authenticate(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	if code := serve(handler, ""); code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", code, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	handler := middleware.Authenticate(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	if code := serve(handler, "invalid-token"); code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", code, http.StatusUnauthorized)
	}
}

func TestRequireRestaurant_Matching(t *testing.T) {
	rid := uuid.New()
	handler := middleware.Authenticate(testSecret)(middleware.RequireRestaurant(rid)(okHandler()))

	if code := serve(handler, token(t, rid, enum.RoleStaff)); code != http.StatusOK {
		t.Errorf("status: got %d, want %d", code, http.StatusOK)
	}
}

func TestRequireRestaurant_Mismatched(t *testing.T) {
	handler := middleware.Authenticate(testSecret)(middleware.RequireRestaurant(uuid.New())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	})))

	// Owners of another restaurant get no bypass.
	if code := serve(handler, token(t, uuid.New(), enum.RoleOwner)); code != http.StatusForbidden {
		t.Errorf("status: got %d, want %d", code, http.StatusForbidden)
	}
}

func TestRequireRole(t *testing.T) {
	rid := uuid.New()
	handler := middleware.Authenticate(testSecret)(middleware.RequireRole(enum.RoleOwner)(okHandler()))

	if code := serve(handler, token(t, rid, enum.RoleStaff)); code != http.StatusForbidden {
		t.Errorf("staff: got %d, want %d", code, http.StatusForbidden)
	}
	if code := serve(handler, token(t, rid, enum.RoleOwner)); code != http.StatusOK {
		t.Errorf("owner: got %d, want %d", code, http.StatusOK)
	}
}
