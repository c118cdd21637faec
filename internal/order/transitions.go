package order

import "github.com/kiwari-pos/console/internal/enum"

// Action is a status change the console offers for an order's displayed status.
type Action struct {
	Label  string `json:"label"`
	Status string `json:"status"`
}

// allowedTransitions defines valid status transitions.
// Key is current status, value is the ordered set of actions it offers.
// Terminal statuses (completed, rejected) have no entry.
var allowedTransitions = map[string][]Action{
	enum.OrderStatusPending: {
		{Label: "Accept", Status: enum.OrderStatusPreparing},
		{Label: "Reject", Status: enum.OrderStatusRejected},
	},
	enum.OrderStatusPreparing: {
		{Label: "Mark as Ready", Status: enum.OrderStatusReady},
	},
	enum.OrderStatusReady: {
		{Label: "Complete Order", Status: enum.OrderStatusCompleted},
	},
}

// ActionsFor returns the actions offered for an order in the given status.
// The returned slice is a copy.
func ActionsFor(status string) []Action {
	allowed := allowedTransitions[status]
	out := make([]Action, len(allowed))
	copy(out, allowed)
	return out
}

// CanTransition reports whether current -> next is in the transition table.
func CanTransition(current, next string) bool {
	for _, a := range allowedTransitions[current] {
		if a.Status == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves the status.
func IsTerminal(status string) bool {
	return status == enum.OrderStatusCompleted || status == enum.OrderStatusRejected
}
