// Package dashboard derives the overview figures shown on the console's
// landing page from an order snapshot.
package dashboard

import (
	"github.com/kiwari-pos/console/internal/enum"
	"github.com/kiwari-pos/console/internal/order"
	"github.com/shopspring/decimal"
)

// DefaultRecent is how many recent orders the overview shows.
const DefaultRecent = 5

// Summary is the dashboard overview.
type Summary struct {
	TotalOrders     int
	PendingOrders   int
	PreparingOrders int
	ReadyOrders     int
	CompletedOrders int
	RejectedOrders  int
	TotalRevenue    decimal.Decimal
	RecentOrders    []RecentOrder
}

// RecentOrder is a one-line view of an order.
type RecentOrder struct {
	ID     int
	Items  int // total quantity
	Total  decimal.Decimal
	Status string
}

// Summarize counts orders by status and sums revenue from completed orders.
// Recent orders are the last recent entries of the snapshot, newest first.
func Summarize(orders []order.Order, recent int) Summary {
	s := Summary{TotalOrders: len(orders), TotalRevenue: decimal.Zero}

	for _, o := range orders {
		switch o.Status {
		case enum.OrderStatusPending:
			s.PendingOrders++
		case enum.OrderStatusPreparing:
			s.PreparingOrders++
		case enum.OrderStatusReady:
			s.ReadyOrders++
		case enum.OrderStatusCompleted:
			s.CompletedOrders++
			s.TotalRevenue = s.TotalRevenue.Add(o.Total)
		case enum.OrderStatusRejected:
			s.RejectedOrders++
		}
	}

	if recent < 0 {
		recent = 0
	}
	if recent > len(orders) {
		recent = len(orders)
	}
	s.RecentOrders = make([]RecentOrder, 0, recent)
	for i := len(orders) - 1; i >= len(orders)-recent; i-- {
		o := orders[i]
		qty := 0
		for _, it := range o.Items {
			qty += it.Quantity
		}
		s.RecentOrders = append(s.RecentOrders, RecentOrder{
			ID:     o.ID,
			Items:  qty,
			Total:  o.Total,
			Status: o.Status,
		})
	}
	return s
}
