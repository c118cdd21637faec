// Package order keeps the console's view of the restaurant's orders and moves
// them through their status lifecycle via the backend order store.
package order

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kiwari-pos/console/internal/apperr"
	"github.com/kiwari-pos/console/internal/enum"
	"github.com/shopspring/decimal"
)

// Errors returned by the order manager.
var (
	ErrInvalidStatus     = fmt.Errorf("%w: invalid status", apperr.ErrValidation)
	ErrInvalidTransition = fmt.Errorf("%w: transition not allowed", apperr.ErrValidation)
	ErrOrderNotFound     = fmt.Errorf("order %w", apperr.ErrNotFound)
	ErrUpdateInFlight    = fmt.Errorf("%w: status update already in progress", apperr.ErrTransient)
)

// Order is a customer order as reported by the backend.
// Total is accepted as given; it is never recomputed from Items.
type Order struct {
	ID     int             `json:"id"`
	Items  []Item          `json:"items"`
	Total  decimal.Decimal `json:"total"`
	Status string          `json:"status"`
}

// Item is a line of an order. Name and Price are a snapshot taken when the
// order was placed, not a reference to the live menu.
type Item struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// LineTotal is Price * Quantity.
func (i Item) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Store is the backend collaborator that owns orders.
// Satisfied by *backend.Client and *backend.MemoryStore.
type Store interface {
	FetchOrders(ctx context.Context) ([]Order, error)
	UpdateStatus(ctx context.Context, orderID int, status string) error
}

// Manager holds the authoritative local snapshot of orders.
type Manager struct {
	store   Store
	timeout time.Duration

	mu        sync.RWMutex
	orders    []Order
	inFlight  map[int]bool
	listeners []func([]Order)
}

// NewManager creates a Manager. A zero timeout disables the per-call deadline.
func NewManager(store Store, timeout time.Duration) *Manager {
	return &Manager{
		store:    store,
		timeout:  timeout,
		inFlight: make(map[int]bool),
	}
}

// OnChange registers fn to be called with the new snapshot after every
// successful replacement. fn runs on the caller's goroutine and must not
// call back into the Manager's mutating methods.
func (m *Manager) OnChange(fn func([]Order)) {
	m.mu.Lock()
	m.listeners = append(m.listeners, fn)
	m.mu.Unlock()
}

// Refresh re-reads the full order collection and replaces the snapshot.
func (m *Manager) Refresh(ctx context.Context) error {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	orders, err := m.store.FetchOrders(ctx)
	if err != nil {
		return apperr.Transient("fetch orders", err)
	}
	m.replace(orders)
	return nil
}

// ListOrders returns the orders whose status equals filter, or all orders for
// enum.FilterAll, in snapshot order.
func (m *Manager) ListOrders(filter string) []Order {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return filterByStatus(m.orders, filter)
}

// Get returns the displayed order with the given id.
func (m *Manager) Get(id int) (Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i := indexOf(m.orders, id)
	if i < 0 {
		return Order{}, fmt.Errorf("%w: %d", ErrOrderNotFound, id)
	}
	return cloneOrder(m.orders[i]), nil
}

// Actions returns the status changes the console offers for o.
func (m *Manager) Actions(o Order) []Action {
	return ActionsFor(o.Status)
}

// InFlight reports whether a status update for orderID is awaiting the backend.
func (m *Manager) InFlight(orderID int) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.inFlight[orderID]
}

// RequestStatusUpdate asks the store to move orderID to newStatus and, on
// success, re-reads the whole collection. The local snapshot is never patched
// in place; on any failure it is left exactly as it was.
//
// Only transitions offered for the displayed status are sent. The store is
// expected to validate again against its own current state.
func (m *Manager) RequestStatusUpdate(ctx context.Context, orderID int, newStatus string) error {
	if !enum.IsOrderStatus(newStatus) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, newStatus)
	}

	m.mu.Lock()
	i := indexOf(m.orders, orderID)
	if i < 0 {
		m.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrOrderNotFound, orderID)
	}
	if m.inFlight[orderID] {
		m.mu.Unlock()
		return fmt.Errorf("order %d: %w", orderID, ErrUpdateInFlight)
	}
	current := m.orders[i].Status
	if !CanTransition(current, newStatus) {
		m.mu.Unlock()
		return fmt.Errorf("%w: cannot transition from %s to %s", ErrInvalidTransition, current, newStatus)
	}
	m.inFlight[orderID] = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		delete(m.inFlight, orderID)
		m.mu.Unlock()
	}()

	if err := m.callUpdate(ctx, orderID, newStatus); err != nil {
		// The backend saw a different current status than this view did.
		if errors.Is(err, apperr.ErrValidation) {
			return fmt.Errorf("%w: order %d rejected by backend: %w", ErrInvalidTransition, orderID, err)
		}
		return apperr.Transient(fmt.Sprintf("update order %d", orderID), err)
	}

	if err := m.Refresh(ctx); err != nil {
		return fmt.Errorf("order %d updated, re-read failed: %w", orderID, err)
	}
	return nil
}

func (m *Manager) callUpdate(ctx context.Context, orderID int, status string) error {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()
	return m.store.UpdateStatus(ctx, orderID, status)
}

func (m *Manager) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, m.timeout)
}

func (m *Manager) replace(orders []Order) {
	snapshot := cloneOrders(orders)

	m.mu.Lock()
	m.orders = snapshot
	listeners := make([]func([]Order), len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(cloneOrders(snapshot))
	}
}

// --- Helpers ---

func filterByStatus(orders []Order, filter string) []Order {
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		if filter == enum.FilterAll || o.Status == filter {
			out = append(out, cloneOrder(o))
		}
	}
	return out
}

func indexOf(orders []Order, id int) int {
	for i, o := range orders {
		if o.ID == id {
			return i
		}
	}
	return -1
}

func cloneOrders(orders []Order) []Order {
	out := make([]Order, len(orders))
	for i, o := range orders {
		out[i] = cloneOrder(o)
	}
	return out
}

func cloneOrder(o Order) Order {
	items := make([]Item, len(o.Items))
	copy(items, o.Items)
	o.Items = items
	return o
}
