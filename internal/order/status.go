package order

import "github.com/mkamran-dev/storefront-backend/internal/types/order"

// transitions is the single source of truth for the delivery lifecycle.
// Delivered and Cancelled are terminal: their rows are empty.
var transitions = map[order.Status][]order.Status{
	order.StatusAccepted:         {order.StatusReadyForDelivery, order.StatusCancelled},
	order.StatusReadyForDelivery: {order.StatusInDelivery, order.StatusCancelled},
	order.StatusInDelivery:       {order.StatusDelivered, order.StatusCancelled},
	order.StatusDelivered:        {},
	order.StatusCancelled:        {},
}

func ValidStatus(s order.Status) bool {
	_, ok := transitions[s]
	return ok
}

func IsTerminal(s order.Status) bool {
	return len(transitions[s]) == 0 && ValidStatus(s)
}

func CanTransition(from, to order.Status) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
