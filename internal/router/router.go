package router

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/kiwari-pos/console/internal/config"
	"github.com/kiwari-pos/console/internal/handler"
	"github.com/kiwari-pos/console/internal/menu"
	"github.com/kiwari-pos/console/internal/metrics"
	mw "github.com/kiwari-pos/console/internal/middleware"
	"github.com/kiwari-pos/console/internal/order"
	"github.com/kiwari-pos/console/internal/profile"
	"github.com/kiwari-pos/console/internal/ws"
)

// Deps are the long-lived services the routes are built on.
type Deps struct {
	Orders  *order.Manager
	Menu    *menu.Manager
	Profile *profile.Manager
	Hub     *ws.Hub
	Metrics *metrics.Metrics
}

// New creates a Chi router with all console routes wired up.
// Every route except /health, /metrics and /ws requires a bearer token scoped
// to the configured restaurant.
func New(cfg *config.Config, d Deps) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", d.Metrics.Handler())

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(d.Hub, cfg.JWTSecret, cfg.RestaurantID, w, r)
	})

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))
		r.Use(mw.RequireRestaurant(cfg.RestaurantID))

		handler.NewAuthHandler().RegisterRoutes(r)
		handler.NewDashboardHandler(d.Orders).RegisterRoutes(r)

		orderHandler := handler.NewOrderHandler(d.Orders, d.Metrics)
		r.Route("/orders", orderHandler.RegisterRoutes)

		menuHandler := handler.NewMenuHandler(d.Menu, d.Metrics, cfg.MaxImageBytes)
		r.Route("/menu", menuHandler.RegisterRoutes)

		profileHandler := handler.NewProfileHandler(d.Profile)
		r.Route("/profile", profileHandler.RegisterRoutes)
	})

	log.Println("Router initialized with all handlers")
	return r
}
