package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kiwari-pos/console/internal/enum"
	"github.com/kiwari-pos/console/internal/order"
)

// OrderManager defines the order operations the handlers need.
// Satisfied by *order.Manager; narrow interface for testability.
type OrderManager interface {
	ListOrders(filter string) []order.Order
	Get(id int) (order.Order, error)
	Refresh(ctx context.Context) error
	RequestStatusUpdate(ctx context.Context, orderID int, status string) error
	InFlight(orderID int) bool
}

// StatusRecorder records status change outcomes. Satisfied by *metrics.Metrics.
type StatusRecorder interface {
	StatusUpdate(status string, err error)
}

// OrderHandler handles order endpoints.
type OrderHandler struct {
	orders  OrderManager
	metrics StatusRecorder
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orders OrderManager, metrics StatusRecorder) *OrderHandler {
	return &OrderHandler{orders: orders, metrics: metrics}
}

// RegisterRoutes registers order endpoints on the given Chi router.
// Expected to be mounted at /orders.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/refresh", h.Refresh)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}/status", h.UpdateStatus)
}

// --- Request / Response types ---

type updateStatusRequest struct {
	Status string `json:"status"`
}

type orderItemResponse struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
	LineTotal string `json:"line_total"`
}

type orderResponse struct {
	ID       int                 `json:"id"`
	Items    []orderItemResponse `json:"items"`
	Total    string              `json:"total"`
	Status   string              `json:"status"`
	Actions  []order.Action      `json:"actions"`
	Terminal bool                `json:"terminal"`
	InFlight bool                `json:"in_flight"`
}

func (h *OrderHandler) toOrderResponse(o order.Order) orderResponse {
	items := make([]orderItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = orderItemResponse{
			ID:        it.ID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Price:     it.Price.StringFixed(2),
			LineTotal: it.LineTotal().StringFixed(2),
		}
	}
	actions := order.ActionsFor(o.Status)
	if actions == nil {
		actions = []order.Action{}
	}
	return orderResponse{
		ID:       o.ID,
		Items:    items,
		Total:    o.Total.StringFixed(2),
		Status:   o.Status,
		Actions:  actions,
		Terminal: order.IsTerminal(o.Status),
		InFlight: h.orders.InFlight(o.ID),
	}
}

// --- Handlers ---

// List returns the displayed orders, optionally filtered by ?status=.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("status")
	if filter == "" {
		filter = enum.FilterAll
	}
	if filter != enum.FilterAll && !enum.IsOrderStatus(filter) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid status filter"})
		return
	}

	orders := h.orders.ListOrders(filter)
	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = h.toOrderResponse(o)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Refresh re-reads every order from the backend.
func (h *OrderHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.orders.Refresh(r.Context()); err != nil {
		writeError(w, "refresh orders", err)
		return
	}
	h.List(w, r)
}

// Get returns a single displayed order.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}
	o, err := h.orders.Get(id)
	if err != nil {
		writeError(w, "get order", err)
		return
	}
	writeJSON(w, http.StatusOK, h.toOrderResponse(o))
}

// UpdateStatus moves an order along its lifecycle and returns the re-read order.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Status == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "status is required"})
		return
	}

	err := h.orders.RequestStatusUpdate(r.Context(), id, req.Status)
	label := req.Status
	if !enum.IsOrderStatus(label) {
		label = "unknown"
	}
	h.metrics.StatusUpdate(label, err)
	if err != nil {
		writeError(w, "update order status", err)
		return
	}

	o, err := h.orders.Get(id)
	if err != nil {
		writeError(w, "get order", err)
		return
	}
	writeJSON(w, http.StatusOK, h.toOrderResponse(o))
}
