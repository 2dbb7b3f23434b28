package models

import (
	"fmt"
	"sort"
	"strings"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusConfirmed  OrderStatus = "CONFIRMED"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusShipped    OrderStatus = "SHIPPED"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCancelled  OrderStatus = "CANCELLED"
	StatusReturned   OrderStatus = "RETURNED"
)

// statusTransitions is the single source of truth for which status changes
// are legal. Terminal states have no entry.
var statusTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered, StatusReturned},
	StatusDelivered:  {StatusReturned},
}

// ParseStatus normalizes and validates a status string.
func ParseStatus(raw string) (OrderStatus, error) {
	s := OrderStatus(strings.ToUpper(strings.TrimSpace(raw)))
	switch s {
	case StatusPending, StatusConfirmed, StatusProcessing, StatusShipped,
		StatusDelivered, StatusCancelled, StatusReturned:
		return s, nil
	}
	return "", fmt.Errorf("unknown order status %q", raw)
}

// CanTransition reports whether from -> to is a legal status change.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the legal next states for a status, sorted for
// stable error messages.
func AllowedTransitions(from OrderStatus) []OrderStatus {
	next := append([]OrderStatus(nil), statusTransitions[from]...)
	sort.Slice(next, func(i, j int) bool { return next[i] < next[j] })
	return next
}

// IsTerminal reports whether a status has no outgoing transitions.
func IsTerminal(s OrderStatus) bool {
	return len(statusTransitions[s]) == 0
}

// RestoresStock reports whether entering this status releases the order's
// reserved stock back to the catalog.
func RestoresStock(s OrderStatus) bool {
	return s == StatusCancelled || s == StatusReturned
}
