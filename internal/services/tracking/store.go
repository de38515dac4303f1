package tracking

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Aayushshr101/digital-menu-backend/internal/database"
	"github.com/Aayushshr101/digital-menu-backend/internal/models"
)

// Store reads order history and kitchen worker state.
type Store interface {
	OrderExists(ctx context.Context, id uuid.UUID) (bool, error)
	History(ctx context.Context, id uuid.UUID) ([]models.StatusLogEntry, error)
	Workers(ctx context.Context) ([]models.Worker, error)
	Ping(ctx context.Context) error
}

type PostgresStore struct {
	db *database.DB
}

func NewPostgresStore(db *database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) OrderExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	if err := s.db.QueryRow(ctx, database.OrderExistsSQL, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check order existence: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) History(ctx context.Context, id uuid.UUID) ([]models.StatusLogEntry, error) {
	rows, err := s.db.Query(ctx, database.GetOrderStatusHistorySQL, id)
	if err != nil {
		return nil, fmt.Errorf("query order history: %w", err)
	}

	history, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.StatusLogEntry, error) {
		var entry models.StatusLogEntry
		err := row.Scan(&entry.Status, &entry.ChangedBy, &entry.ChangedAt, &entry.Notes)
		return entry, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan order history: %w", err)
	}
	return history, nil
}

func (s *PostgresStore) Workers(ctx context.Context) ([]models.Worker, error) {
	rows, err := s.db.Query(ctx, database.GetAllWorkersSQL)
	if err != nil {
		return nil, fmt.Errorf("query workers: %w", err)
	}

	workers, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Worker, error) {
		var w models.Worker
		err := row.Scan(&w.Name, &w.Status, &w.LastSeen, &w.TicketsAccepted, &w.CreatedAt)
		return w, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan workers: %w", err)
	}
	return workers, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
