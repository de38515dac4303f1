package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoutingKeyNewOrder = "kitchen.new"
	RoutingKeyAddition = "kitchen.addition"
)

// KitchenTicket tells the kitchen which lines to prepare for a table.
type KitchenTicket struct {
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	TableID     uuid.UUID       `json:"table"`
	Items       []OrderLineItem `json:"items"`
	Addition    bool            `json:"addition"`
	TotalAmount Money           `json:"total_amount"`
	CreatedAt   time.Time       `json:"created_at"`
}

// RoutingKey picks the topic routing key for the ticket.
func (t *KitchenTicket) RoutingKey() string {
	if t.Addition {
		return RoutingKeyAddition
	}
	return RoutingKeyNewOrder
}

// NewKitchenTicket builds a ticket carrying only the given lines.
func NewKitchenTicket(order *Order, items []OrderLineItem, addition bool) *KitchenTicket {
	return &KitchenTicket{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		TableID:     order.TableID,
		Items:       items,
		Addition:    addition,
		TotalAmount: order.TotalAmount,
		CreatedAt:   time.Now().UTC(),
	}
}

// StatusUpdateMessage represents a status update notification
type StatusUpdateMessage struct {
	OrderID     uuid.UUID   `json:"order_id"`
	OrderNumber string      `json:"order_number"`
	OldStatus   OrderStatus `json:"old_status"`
	NewStatus   OrderStatus `json:"new_status"`
	ChangedBy   string      `json:"changed_by"`
	Timestamp   time.Time   `json:"timestamp"`
}

// NewStatusUpdateMessage creates a StatusUpdateMessage for order status changes
func NewStatusUpdateMessage(order *Order, oldStatus OrderStatus, changedBy string) *StatusUpdateMessage {
	return &StatusUpdateMessage{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		OldStatus:   oldStatus,
		NewStatus:   order.Status,
		ChangedBy:   changedBy,
		Timestamp:   time.Now().UTC(),
	}
}
