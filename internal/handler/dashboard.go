package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/kiwari-pos/console/internal/dashboard"
	"github.com/kiwari-pos/console/internal/enum"
	"github.com/kiwari-pos/console/internal/order"
)

// maxRecent bounds ?recent= on the dashboard.
const maxRecent = 50

// OrderLister is the read side of the order manager.
type OrderLister interface {
	ListOrders(filter string) []order.Order
}

// DashboardHandler serves the overview figures.
type DashboardHandler struct {
	orders OrderLister
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(orders OrderLister) *DashboardHandler {
	return &DashboardHandler{orders: orders}
}

// RegisterRoutes registers the dashboard endpoint at /dashboard.
func (h *DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard", h.Summary)
}

// Summary summarizes the current order snapshot.
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	recent := dashboard.DefaultRecent
	if s := r.URL.Query().Get("recent"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 || n > maxRecent {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "recent must be between 0 and 50"})
			return
		}
		recent = n
	}

	writeJSON(w, http.StatusOK, toSummaryResponse(dashboard.Summarize(h.orders.ListOrders(enum.FilterAll), recent)))
}

type recentOrderResponse struct {
	ID     int    `json:"id"`
	Items  int    `json:"items"`
	Total  string `json:"total"`
	Status string `json:"status"`
}

type summaryResponse struct {
	TotalOrders     int                   `json:"total_orders"`
	PendingOrders   int                   `json:"pending_orders"`
	PreparingOrders int                   `json:"preparing_orders"`
	ReadyOrders     int                   `json:"ready_orders"`
	CompletedOrders int                   `json:"completed_orders"`
	RejectedOrders  int                   `json:"rejected_orders"`
	TotalRevenue    string                `json:"total_revenue"`
	RecentOrders    []recentOrderResponse `json:"recent_orders"`
}

func toSummaryResponse(s dashboard.Summary) summaryResponse {
	recent := make([]recentOrderResponse, len(s.RecentOrders))
	for i, o := range s.RecentOrders {
		recent[i] = recentOrderResponse{ID: o.ID, Items: o.Items, Total: o.Total.StringFixed(2), Status: o.Status}
	}
	return summaryResponse{
		TotalOrders:     s.TotalOrders,
		PendingOrders:   s.PendingOrders,
		PreparingOrders: s.PreparingOrders,
		ReadyOrders:     s.ReadyOrders,
		CompletedOrders: s.CompletedOrders,
		RejectedOrders:  s.RejectedOrders,
		TotalRevenue:    s.TotalRevenue.StringFixed(2),
		RecentOrders:    recent,
	}
}
