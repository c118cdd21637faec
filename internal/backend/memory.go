package backend

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kiwari-pos/console/internal/apperr"
	"github.com/kiwari-pos/console/internal/enum"
	"github.com/kiwari-pos/console/internal/order"
	"github.com/kiwari-pos/console/internal/profile"
	"github.com/shopspring/decimal"
)

// MemoryStore is an in-process backend used when no BACKEND_URL is set.
// It enforces the same status lifecycle as the real backend.
type MemoryStore struct {
	mu      sync.Mutex
	orders  []order.Order
	profile profile.Profile
}

// NewMemoryStore creates a MemoryStore holding copies of orders and p.
func NewMemoryStore(orders []order.Order, p profile.Profile) *MemoryStore {
	s := &MemoryStore{profile: p}
	for _, o := range orders {
		s.orders = append(s.orders, copyOrder(o))
	}
	return s
}

// FetchOrders returns a copy of every order.
func (s *MemoryStore) FetchOrders(ctx context.Context) ([]order.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrTransient, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]order.Order, len(s.orders))
	for i, o := range s.orders {
		out[i] = copyOrder(o)
	}
	return out, nil
}

// UpdateStatus moves an order to status if its current status allows it.
func (s *MemoryStore) UpdateStatus(ctx context.Context, orderID int, status string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", apperr.ErrTransient, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID != orderID {
			continue
		}
		if !order.CanTransition(s.orders[i].Status, status) {
			return fmt.Errorf("%w: order %d cannot move from %s to %s",
				apperr.ErrValidation, orderID, s.orders[i].Status, status)
		}
		s.orders[i].Status = status
		return nil
	}
	return fmt.Errorf("order %d: %w", orderID, apperr.ErrNotFound)
}

// AddOrder appends an incoming order, assigning the next id when o.ID is zero.
func (s *MemoryStore) AddOrder(o order.Order) order.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o.ID == 0 {
		for _, existing := range s.orders {
			o.ID = max(o.ID, existing.ID)
		}
		o.ID++
	}
	if o.Status == "" {
		o.Status = enum.OrderStatusPending
	}
	s.orders = append(s.orders, copyOrder(o))
	return copyOrder(o)
}

// Simulate adds a new pending order every interval until ctx is done, cycling
// through the sample orders' lines. onAdd, if set, runs after each addition.
func (s *MemoryStore) Simulate(ctx context.Context, every time.Duration, onAdd func(order.Order)) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	templates := SampleOrders()
	for n := 0; ; n++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t := templates[n%len(templates)]
			o := s.AddOrder(order.Order{Items: t.Items, Total: t.Total})
			if onAdd != nil {
				onAdd(o)
			}
		}
	}
}

// FetchProfile returns the stored profile.
func (s *MemoryStore) FetchProfile(ctx context.Context) (profile.Profile, error) {
	if err := ctx.Err(); err != nil {
		return profile.Profile{}, fmt.Errorf("%w: %w", apperr.ErrTransient, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile, nil
}

// SaveProfile replaces the stored profile.
func (s *MemoryStore) SaveProfile(ctx context.Context, p profile.Profile) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", apperr.ErrTransient, err)
	}
	s.mu.Lock()
	s.profile = p
	s.mu.Unlock()
	return nil
}

func copyOrder(o order.Order) order.Order {
	items := make([]order.Item, len(o.Items))
	copy(items, o.Items)
	o.Items = items
	return o
}

// SampleOrders is the development data set served by a fresh MemoryStore.
func SampleOrders() []order.Order {
	line := func(id int, name string, qty int, price string) order.Item {
		return order.Item{ID: id, Name: name, Quantity: qty, Price: decimal.RequireFromString(price)}
	}
	return []order.Order{
		{
			ID:     1,
			Items:  []order.Item{line(1, "Spaghetti Carbonara", 2, "12.99"), line(2, "Tiramisu", 1, "20.01")},
			Total:  decimal.RequireFromString("45.99"),
			Status: enum.OrderStatusPending,
		},
		{
			ID:     2,
			Items:  []order.Item{line(3, "Bruschetta", 1, "8.50"), line(4, "Lasagna", 1, "24.00")},
			Total:  decimal.RequireFromString("32.50"),
			Status: enum.OrderStatusPreparing,
		},
		{
			ID:     3,
			Items:  []order.Item{line(5, "Margherita Pizza", 2, "18.00"), line(6, "Lemonade", 2, "4.50"), line(7, "Panna Cotta", 1, "33.25")},
			Total:  decimal.RequireFromString("78.25"),
			Status: enum.OrderStatusReady,
		},
	}
}

// SampleProfile is the development profile served by a fresh MemoryStore.
func SampleProfile() profile.Profile {
	return profile.Profile{
		Name:         "Trattoria Roma",
		Description:  "Family-run Italian kitchen serving fresh pasta daily.",
		Address:      "Jl. Sudirman No. 10, Jakarta",
		Phone:        "+6281234567890",
		Email:        "hello@trattoria.example.com",
		OpeningHours: "9:00 AM - 10:00 PM",
	}
}
