package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Aayushshr101/digital-menu-backend/internal/logger"
	"github.com/Aayushshr101/digital-menu-backend/internal/models"
)

// Store persists payments.
type Store interface {
	Create(ctx context.Context, orderID uuid.UUID, amount models.Money, method models.PaymentMethod) (*models.Payment, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	Settle(ctx context.Context, id uuid.UUID, status models.PaymentStatus, req *models.CompletePaymentRequest) (*models.Payment, error)
}

// OrderReader loads the order a payment settles.
type OrderReader interface {
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
}

type Service struct {
	store  Store
	orders OrderReader
	logger *logger.Logger
}

func NewService(store Store, orders OrderReader, log *logger.Logger) *Service {
	return &Service{store: store, orders: orders, logger: log}
}

// CreatePayment opens a pending payment for the order's current total.
func (s *Service) CreatePayment(ctx context.Context, req *models.CreatePaymentRequest, requestID string) (*models.Payment, error) {
	if req.OrderID == uuid.Nil {
		return nil, models.ValidationError{Field: "order", Message: "order is required"}
	}
	if !models.ValidPaymentMethod(req.Method) {
		return nil, models.ValidationError{Field: "method", Message: fmt.Sprintf("unsupported payment method %q", req.Method)}
	}

	order, err := s.orders.GetOrder(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if order.Status == models.StatusCancelled || order.PaymentStatus == models.PaymentPaid {
		return nil, &models.InvalidStateError{OrderID: order.ID.String(), Status: order.Status, Op: "pay for"}
	}

	p, err := s.store.Create(ctx, order.ID, order.TotalAmount, req.Method)
	if err != nil {
		return nil, &models.PersistenceError{Op: "create payment", Err: err}
	}

	s.logger.Info("payment_created", "Payment created", requestID, map[string]interface{}{
		"payment_id":   p.ID.String(),
		"order_number": order.OrderNumber,
		"amount":       p.Amount.String(),
		"method":       string(p.Method),
	})
	return p, nil
}

func (s *Service) GetPayment(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	return s.store.Get(ctx, id)
}

// CompletePayment marks a pending payment paid. Gateway payments need a transaction id.
func (s *Service) CompletePayment(ctx context.Context, id uuid.UUID, req *models.CompletePaymentRequest, requestID string) (*models.Payment, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Method != models.PaymentCash && req.TransactionID == "" {
		return nil, models.ValidationError{Field: "transaction_id", Message: "transaction id is required for " + string(current.Method)}
	}
	return s.settle(ctx, id, models.PaymentPaid, req, requestID)
}

// FailPayment marks a pending payment failed.
func (s *Service) FailPayment(ctx context.Context, id uuid.UUID, requestID string) (*models.Payment, error) {
	return s.settle(ctx, id, models.PaymentFailed, &models.CompletePaymentRequest{}, requestID)
}

func (s *Service) settle(ctx context.Context, id uuid.UUID, status models.PaymentStatus, req *models.CompletePaymentRequest, requestID string) (*models.Payment, error) {
	p, err := s.store.Settle(ctx, id, status, req)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrInvalidState) {
			return nil, err
		}
		return nil, &models.PersistenceError{Op: "settle payment", Err: err}
	}

	s.logger.Info("payment_settled", fmt.Sprintf("Payment %s", status), requestID, map[string]interface{}{
		"payment_id": p.ID.String(),
		"order_id":   p.OrderID.String(),
		"status":     string(p.Status),
	})
	return p, nil
}
