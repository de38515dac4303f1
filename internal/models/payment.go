package models

import (
	"time"

	"github.com/google/uuid"
)

// Payment records an attempt to settle an order.
type Payment struct {
	ID            uuid.UUID              `json:"id"`
	OrderID       uuid.UUID              `json:"order"`
	Amount        Money                  `json:"amount"`
	Method        PaymentMethod          `json:"method"`
	Status        PaymentStatus          `json:"status"`
	TransactionID *string                `json:"transaction_id,omitempty"`
	RefID         *string                `json:"ref_id,omitempty"`
	PaymentData   map[string]interface{} `json:"payment_data,omitempty"`
	PaymentDate   *time.Time             `json:"payment_date,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// CreatePaymentRequest starts a payment for an order.
type CreatePaymentRequest struct {
	OrderID uuid.UUID     `json:"order"`
	Method  PaymentMethod `json:"method"`
}

// CompletePaymentRequest carries the gateway references of a successful payment.
type CompletePaymentRequest struct {
	TransactionID string                 `json:"transaction_id"`
	RefID         string                 `json:"ref_id,omitempty"`
	PaymentData   map[string]interface{} `json:"payment_data,omitempty"`
}

// ValidPaymentMethod reports whether m can be used to open a payment.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentCash, PaymentEsewa, PaymentCard:
		return true
	}
	return false
}
