package enum

// ── Order lifecycle (enforced again by the backend) ──

const (
	OrderStatusPending   = "pending"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusCompleted = "completed"
	OrderStatusRejected  = "rejected"
)

// OrderStatuses lists every known status in lifecycle order.
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusCompleted,
	OrderStatusRejected,
}

// ── Menu categories offered by the filter bar ──
// Writes accept any operator-supplied category; only the filter UI is fixed.

const (
	CategoryAppetizers = "appetizers"
	CategoryMain       = "main"
	CategoryDesserts   = "desserts"
	CategoryBeverages  = "beverages"
)

// FilterAll is the identity filter for both order and menu views.
const FilterAll = "all"

// OrderFilters lists the status filters in the order the console shows them.
var OrderFilters = []string{
	FilterAll,
	OrderStatusPending,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusCompleted,
}

// MenuFilters lists the category filters in the order the console shows them.
var MenuFilters = []string{
	FilterAll,
	CategoryAppetizers,
	CategoryMain,
	CategoryDesserts,
	CategoryBeverages,
}

// ── Roles carried in backend-issued tokens ──

const (
	RoleOwner   = "OWNER"
	RoleManager = "MANAGER"
	RoleStaff   = "STAFF"
)

// ── Realtime event types ──

const (
	EventOrdersUpdated  = "orders.updated"
	EventMenuUpdated    = "menu.updated"
	EventProfileUpdated = "profile.updated"
)

// IsOrderStatus reports whether s is one of the known order statuses.
func IsOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusReady,
		OrderStatusCompleted, OrderStatusRejected:
		return true
	}
	return false
}
