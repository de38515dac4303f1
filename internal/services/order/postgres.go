package order

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

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore implements Repository.
type PostgresStore struct {
	db *database.DB
}

func NewPostgresStore(db *database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, tableID uuid.UUID, items []models.OrderLineItem, total models.Money) (*models.Order, error) {
	var order *models.Order

	err := s.db.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, database.LockOrderNumbersSQL); err != nil {
			return fmt.Errorf("lock order numbers: %w", err)
		}

		now := time.Now().UTC()
		var seq int
		if err := tx.QueryRow(ctx, database.GetNextOrderNumberSQL, "ORD_"+now.Format("20060102")+"_%").Scan(&seq); err != nil {
			return fmt.Errorf("next order number: %w", err)
		}

		o := &models.Order{
			OrderNumber: models.GenerateOrderNumber(now, seq),
			TableID:     tableID,
			TotalAmount: total,
		}
		err := tx.QueryRow(ctx, database.InsertOrderSQL, o.OrderNumber, tableID, total).Scan(
			&o.ID, &o.Status, &o.PaymentMethod, &o.PaymentStatus, &o.Version, &o.CreatedAt, &o.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		if o.Items, err = insertItems(ctx, tx, o.ID, 0, items); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, database.InsertOrderStatusLogSQL, o.ID, models.StatusPending, "customer", "order placed"); err != nil {
			return fmt.Errorf("insert status log: %w", err)
		}

		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// AppendItems increments the stored total and inserts the lines after the current last position.
func (s *PostgresStore) AppendItems(ctx context.Context, orderID uuid.UUID, items []models.OrderLineItem, delta models.Money) (*models.Order, error) {
	var order *models.Order

	err := s.db.WithTx(ctx, func(tx pgx.Tx) error {
		var version int
		err := tx.QueryRow(ctx, database.IncrementOrderTotalSQL, orderID, delta).Scan(&version)
		if errors.Is(err, pgx.ErrNoRows) {
			return rejectReason(ctx, tx, orderID, "add items to")
		}
		if err != nil {
			return fmt.Errorf("increment order total: %w", err)
		}

		var last int
		if err := tx.QueryRow(ctx, database.MaxOrderItemPositionSQL, orderID).Scan(&last); err != nil {
			return fmt.Errorf("max item position: %w", err)
		}

		if _, err := insertItems(ctx, tx, orderID, last, items); err != nil {
			return err
		}

		order, err = getOrder(ctx, tx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.OrderStatus, changedBy, notes string) (*models.Order, error) {
	var order *models.Order

	err := s.db.WithTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, database.UpdateOrderStatusSQL, id, from, to)
		if err != nil {
			return fmt.Errorf("update order status: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return rejectReason(ctx, tx, id, fmt.Sprintf("move to %s", to))
		}

		var notesArg *string
		if notes != "" {
			notesArg = &notes
		}
		if _, err := tx.Exec(ctx, database.InsertOrderStatusLogSQL, id, to, changedBy, notesArg); err != nil {
			return fmt.Errorf("insert status log: %w", err)
		}

		order, err = getOrder(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return getOrder(ctx, s.db.Pool, id)
}

func (s *PostgresStore) List(ctx context.Context, tableID *uuid.UUID, limit int) ([]models.Order, error) {
	rows, err := s.db.Query(ctx, database.ListOrdersSQL, tableID, limit)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}

	orders, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Order, error) {
		var o models.Order
		err := scanOrder(row, &o)
		return o, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan orders: %w", err)
	}

	for i := range orders {
		if orders[i].Items, err = getItems(ctx, s.db.Pool, orders[i].ID); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// rejectReason explains why a guarded update matched no row.
func rejectReason(ctx context.Context, q querier, id uuid.UUID, op string) error {
	var status models.OrderStatus
	err := q.QueryRow(ctx, database.GetOrderStatusSQL, id).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return &models.NotFoundError{Resource: "order", ID: id.String()}
	}
	if err != nil {
		return fmt.Errorf("read order status: %w", err)
	}
	return &models.InvalidStateError{OrderID: id.String(), Status: status, Op: op}
}

func insertItems(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, after int, items []models.OrderLineItem) ([]models.OrderLineItem, error) {
	out := make([]models.OrderLineItem, len(items))
	for i, item := range items {
		item.Position = after + i + 1
		if item.Customizations == nil {
			item.Customizations = []models.Customization{}
		}
		_, err := tx.Exec(ctx, database.InsertOrderItemSQL,
			orderID, item.Position, item.Item, item.Name, item.Quantity, item.Price, item.Customizations, item.Notes)
		if err != nil {
			return nil, fmt.Errorf("insert order item %d: %w", item.Position, err)
		}
		out[i] = item
	}
	return out, nil
}

func scanOrder(row pgx.Row, o *models.Order) error {
	return row.Scan(
		&o.ID, &o.OrderNumber, &o.TableID, &o.Status, &o.TotalAmount, &o.PaymentMethod, &o.PaymentStatus,
		&o.PaymentTransactionID, &o.PaymentID, &o.PaymentDate, &o.Version, &o.CreatedAt, &o.UpdatedAt, &o.CompletedAt,
	)
}

func getOrder(ctx context.Context, q querier, id uuid.UUID) (*models.Order, error) {
	var o models.Order
	err := scanOrder(q.QueryRow(ctx, database.GetOrderSQL, id), &o)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &models.NotFoundError{Resource: "order", ID: id.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("query order: %w", err)
	}

	if o.Items, err = getItems(ctx, q, id); err != nil {
		return nil, err
	}
	return &o, nil
}

func getItems(ctx context.Context, q querier, orderID uuid.UUID) ([]models.OrderLineItem, error) {
	rows, err := q.Query(ctx, database.GetOrderItemsSQL, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	items := []models.OrderLineItem{}
	for rows.Next() {
		var item models.OrderLineItem
		err := rows.Scan(&item.Position, &item.Item, &item.Name, &item.Quantity, &item.Price, &item.Customizations, &item.Notes)
		if err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
