package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Aayushshr101/digital-menu-backend/internal/database"
	"github.com/Aayushshr101/digital-menu-backend/internal/models"
)

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore implements Store.
type PostgresStore struct {
	db *database.DB
}

func NewPostgresStore(db *database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, orderID uuid.UUID, amount models.Money, method models.PaymentMethod) (*models.Payment, error) {
	p := &models.Payment{
		OrderID: orderID,
		Amount:  amount,
		Method:  method,
	}
	err := s.db.QueryRow(ctx, database.InsertPaymentSQL, orderID, amount, method).Scan(
		&p.ID, &p.Status, &p.PaymentData, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert payment: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	return getPayment(ctx, s.db, id)
}

// Settle moves a pending payment to status and mirrors the result onto its order.
func (s *PostgresStore) Settle(ctx context.Context, id uuid.UUID, status models.PaymentStatus, req *models.CompletePaymentRequest) (*models.Payment, error) {
	var settled *models.Payment

	err := s.db.WithTx(ctx, func(tx pgx.Tx) error {
		data := req.PaymentData
		if data == nil {
			data = map[string]interface{}{}
		}
		now := time.Now().UTC()

		tag, err := tx.Exec(ctx, database.SettlePaymentSQL, id, status,
			nullable(req.TransactionID), nullable(req.RefID), data, now)
		if err != nil {
			return fmt.Errorf("settle payment: %w", err)
		}

		p, err := getPayment(ctx, tx, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return &models.InvalidStateError{OrderID: p.OrderID.String(), Op: fmt.Sprintf("settle %s payment", p.Status)}
		}

		if status == models.PaymentPaid {
			_, err = tx.Exec(ctx, database.UpdateOrderPaymentSQL,
				p.OrderID, p.Method, status, p.TransactionID, p.ID, p.PaymentDate)
		} else {
			_, err = tx.Exec(ctx, database.UpdateOrderPaymentStatusSQL, p.OrderID, status)
		}
		if err != nil {
			return fmt.Errorf("update order payment: %w", err)
		}

		settled = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return settled, nil
}

func getPayment(ctx context.Context, q querier, id uuid.UUID) (*models.Payment, error) {
	var p models.Payment
	err := q.QueryRow(ctx, database.GetPaymentSQL, id).Scan(
		&p.ID, &p.OrderID, &p.Amount, &p.Method, &p.Status, &p.TransactionID, &p.RefID,
		&p.PaymentData, &p.PaymentDate, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &models.NotFoundError{Resource: "payment", ID: id.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return &p, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
