package router_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kiwari-pos/console/internal/auth"
	"github.com/kiwari-pos/console/internal/backend"
	"github.com/kiwari-pos/console/internal/config"
	"github.com/kiwari-pos/console/internal/enum"
	"github.com/kiwari-pos/console/internal/imageenc"
	"github.com/kiwari-pos/console/internal/menu"
	"github.com/kiwari-pos/console/internal/metrics"
	"github.com/kiwari-pos/console/internal/order"
	"github.com/kiwari-pos/console/internal/profile"
	"github.com/kiwari-pos/console/internal/router"
	"github.com/kiwari-pos/console/internal/ws"
)

const testSecret = "router-secret"

var restaurantID = uuid.MustParse("5b0e4b9e-2f1d-4c1a-9a53-0c6a3c1b2d11")

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{
		JWTSecret:      testSecret,
		RestaurantID:   restaurantID,
		MaxImageBytes:  1 << 20,
		AllowedOrigins: []string{"http://localhost:5173"},
	}
	mem := backend.NewMemoryStore(backend.SampleOrders(), backend.SampleProfile())
	orders := order.NewManager(mem, time.Second)
	if err := orders.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	hub := ws.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	return router.New(cfg, router.Deps{
		Orders:  orders,
		Menu:    menu.NewManager(nil, menu.Options{Images: imageenc.New(cfg.MaxImageBytes)}),
		Profile: profile.NewManager(mem, time.Second),
		Hub:     hub,
		Metrics: metrics.New(),
	})
}

func get(t *testing.T, h http.Handler, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func tokenFor(t *testing.T, rid uuid.UUID, role string) string {
	t.Helper()
	tok, err := auth.GenerateToken(testSecret, uuid.New(), rid, role, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return tok
}

func TestRouter_PublicRoutes(t *testing.T) {
	h := newTestRouter(t)

	if rr := get(t, h, "/health", ""); rr.Code != http.StatusOK {
		t.Errorf("health: got %d", rr.Code)
	}
	rr := get(t, h, "/metrics", "")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "go_goroutines") {
		t.Errorf("metrics: got %d", rr.Code)
	}
}

func TestRouter_ProtectedRoutes(t *testing.T) {
	h := newTestRouter(t)

	tests := []struct {
		name  string
		path  string
		token string
		want  int
	}{
		{"no token", "/orders", "", http.StatusUnauthorized},
		{"other restaurant", "/orders", tokenFor(t, uuid.New(), enum.RoleOwner), http.StatusForbidden},
		{"orders", "/orders", tokenFor(t, restaurantID, enum.RoleStaff), http.StatusOK},
		{"menu", "/menu", tokenFor(t, restaurantID, enum.RoleStaff), http.StatusOK},
		{"profile", "/profile", tokenFor(t, restaurantID, enum.RoleStaff), http.StatusOK},
		{"dashboard", "/dashboard", tokenFor(t, restaurantID, enum.RoleStaff), http.StatusOK},
		{"me", "/me", tokenFor(t, restaurantID, enum.RoleManager), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rr := get(t, h, tt.path, tt.token); rr.Code != tt.want {
				t.Fatalf("status: got %d, want %d; body: %s", rr.Code, tt.want, rr.Body.String())
			}
		})
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	h := newTestRouter(t)

	req := httptest.NewRequest("OPTIONS", "/orders", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "PATCH")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("allow origin: got %q", got)
	}
}
