package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Customization is the persisted form of one selection on an order line.
type Customization struct {
	OptionName    string `json:"option_name"`
	Selection     string `json:"selection"`
	PriceAddition Money  `json:"price_addition"`
}

// OrderLineItem is an immutable line on an order. Price is the unit price at the time it was added.
type OrderLineItem struct {
	Position       int             `json:"position"`
	Item           uuid.UUID       `json:"item"`
	Name           string          `json:"name,omitempty"`
	Quantity       int             `json:"quantity"`
	Price          Money           `json:"price"`
	Customizations []Customization `json:"customizations"`
	Notes          string          `json:"notes,omitempty"`
}

// PaymentMethod as recorded on the order
type PaymentMethod string

const (
	PaymentCash    PaymentMethod = "cash"
	PaymentCard    PaymentMethod = "card"
	PaymentEsewa   PaymentMethod = "esewa"
	PaymentNotPaid PaymentMethod = "not_paid"
)

// PaymentStatus is shared by orders and payment records
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentFailed   PaymentStatus = "failed"
)

// Order is a table's running bill. Items only grow; TotalAmount tracks their sum.
type Order struct {
	ID                   uuid.UUID       `json:"id"`
	OrderNumber          string          `json:"order_number"`
	TableID              uuid.UUID       `json:"table"`
	Items                []OrderLineItem `json:"items"`
	Status               OrderStatus     `json:"status"`
	TotalAmount          Money           `json:"total_amount"`
	PaymentMethod        PaymentMethod   `json:"payment_method"`
	PaymentStatus        PaymentStatus   `json:"payment_status"`
	PaymentTransactionID *string         `json:"payment_transaction_id,omitempty"`
	PaymentID            *uuid.UUID      `json:"payment_id,omitempty"`
	PaymentDate          *time.Time      `json:"payment_date,omitempty"`
	Version              int             `json:"version"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
	CompletedAt          *time.Time      `json:"completed_at,omitempty"`
}

// Clone returns a copy whose Items slice does not alias the original.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	out := *o
	out.Items = make([]OrderLineItem, len(o.Items))
	copy(out.Items, o.Items)
	return &out
}

// StatusLogEntry records one status change.
type StatusLogEntry struct {
	Status    OrderStatus `json:"status"`
	ChangedBy string      `json:"changed_by"`
	ChangedAt time.Time   `json:"timestamp"`
	Notes     *string     `json:"notes,omitempty"`
}

// CreateOrderRequest opens a new order for a table.
type CreateOrderRequest struct {
	TableID uuid.UUID       `json:"table"`
	Items   []OrderLineItem `json:"items"`
}

// AppendItemsRequest adds lines to an existing order.
type AppendItemsRequest struct {
	Items []OrderLineItem `json:"items"`
}

// StatusUpdateRequest moves an order to a new status.
type StatusUpdateRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

// GenerateOrderNumber generates a unique order number in format ORD_YYYYMMDD_NNN
func GenerateOrderNumber(date time.Time, sequence int) string {
	return fmt.Sprintf("ORD_%s_%03d", date.Format("20060102"), sequence)
}
