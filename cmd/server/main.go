package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kiwari-pos/console/internal/backend"
	"github.com/kiwari-pos/console/internal/config"
	"github.com/kiwari-pos/console/internal/database"
	"github.com/kiwari-pos/console/internal/enum"
	"github.com/kiwari-pos/console/internal/imageenc"
	"github.com/kiwari-pos/console/internal/menu"
	"github.com/kiwari-pos/console/internal/metrics"
	"github.com/kiwari-pos/console/internal/order"
	"github.com/kiwari-pos/console/internal/profile"
	"github.com/kiwari-pos/console/internal/router"
	"github.com/kiwari-pos/console/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Orders and profile live in the restaurant backend.
	var (
		orderStore   order.Store
		profileStore profile.Store
		demo         *backend.MemoryStore
	)
	if cfg.BackendURL != "" {
		client := backend.NewClient(cfg.BackendURL, cfg.BackendToken, cfg.RestaurantID, &http.Client{})
		orderStore, profileStore = client, client
		log.Printf("Using backend at %s", cfg.BackendURL)
	} else {
		demo = backend.NewMemoryStore(backend.SampleOrders(), backend.SampleProfile())
		orderStore, profileStore = demo, demo
		log.Println("WARNING: BACKEND_URL not set, using in-memory sample backend")
	}

	// The menu is persisted locally when a database is configured.
	menuOpts := menu.Options{
		Timeout: cfg.RequestTimeout,
		Images:  imageenc.New(cfg.MaxImageBytes),
	}
	if cfg.DatabaseURL != "" {
		if err := database.Migrate(cfg.DatabaseURL); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Unable to connect to database: %v", err)
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			log.Fatalf("Unable to ping database: %v", err)
		}
		menuOpts.Store = database.NewMenuStore(pool)
		log.Println("Connected to database")
	}

	hub := ws.NewHub()
	go hub.Run(ctx)
	m := metrics.New()

	orders := order.NewManager(orderStore, cfg.RequestTimeout)
	menuManager := menu.NewManager(nil, menuOpts)
	profiles := profile.NewManager(profileStore, cfg.RequestTimeout)

	orders.OnChange(func(snapshot []order.Order) {
		m.ObserveOrders(snapshot)
		publish(hub, cfg, enum.EventOrdersUpdated, snapshot)
	})
	menuManager.OnChange(func(items []menu.Item) {
		m.ObserveMenu(items)
		publish(hub, cfg, enum.EventMenuUpdated, items)
	})
	profiles.OnChange(func(p profile.Profile) {
		publish(hub, cfg, enum.EventProfileUpdated, p)
	})

	// Initial reads. A backend that is down at startup is not fatal; the
	// operator can refresh once it is back.
	if err := orders.Refresh(ctx); err != nil {
		log.Printf("WARN: initial order refresh: %v", err)
	}
	if err := menuManager.Load(ctx); err != nil {
		log.Fatalf("Failed to load menu: %v", err)
	}
	if err := profiles.Load(ctx); err != nil {
		log.Printf("WARN: initial profile load: %v", err)
	}

	if demo != nil && cfg.DemoOrderInterval > 0 {
		log.Printf("Feeding a sample order every %s", cfg.DemoOrderInterval)
		go demo.Simulate(ctx, cfg.DemoOrderInterval, func(o order.Order) {
			if err := orders.Refresh(ctx); err != nil {
				log.Printf("WARN: refresh after sample order %d: %v", o.ID, err)
			}
		})
	}

	r := router.New(cfg, router.Deps{
		Orders:  orders,
		Menu:    menuManager,
		Profile: profiles,
		Hub:     hub,
		Metrics: m,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("ERROR: shutdown: %v", err)
		}
	}()

	log.Printf("Starting server on :%s", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
	log.Println("Server stopped")
}

func publish(hub *ws.Hub, cfg *config.Config, eventType string, payload any) {
	if err := hub.Publish(cfg.RestaurantID, eventType, payload); err != nil {
		log.Printf("ERROR: publish %s: %v", eventType, err)
	}
}
