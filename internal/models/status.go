package models

import (
	"fmt"
)

// OrderStatus represents the lifecycle position of an order
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPreparing OrderStatus = "preparing"
	StatusServed    OrderStatus = "served"
	StatusComplete  OrderStatus = "complete"
	StatusCancelled OrderStatus = "cancelled"
)

var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusServed, StatusCancelled},
	StatusServed:    {StatusComplete, StatusCancelled},
}

// ParseOrderStatus validates a wire value.
func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if !status.Valid() {
		return "", ValidationError{Field: "status", Message: fmt.Sprintf("unknown order status %q", s)}
	}
	return status, nil
}

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPreparing, StatusServed, StatusComplete, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether the order is closed to further changes.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusComplete || s == StatusCancelled
}

// CanTransitionTo reports whether next is a legal successor of s.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TerminalStatuses lists the statuses that end an order's lifecycle.
func TerminalStatuses() []OrderStatus {
	return []OrderStatus{StatusComplete, StatusCancelled}
}
