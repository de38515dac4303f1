package kitchen

import (
	"context"
	"fmt"
	"time"

	"github.com/Aayushshr101/digital-menu-backend/internal/database"
	"github.com/Aayushshr101/digital-menu-backend/internal/models"
)

// WorkerStore tracks kitchen worker registration and heartbeats.
type WorkerStore interface {
	IsOnline(ctx context.Context, name string, within time.Duration) (bool, error)
	Register(ctx context.Context, name string) error
	SetStatus(ctx context.Context, name string, status models.WorkerStatus) error
	TicketAccepted(ctx context.Context, name string) error
}

type PostgresStore struct {
	db *database.DB
}

func NewPostgresStore(db *database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) IsOnline(ctx context.Context, name string, within time.Duration) (bool, error) {
	var count int
	interval := fmt.Sprintf("%d seconds", int(within.Seconds()))
	if err := s.db.QueryRow(ctx, database.CheckWorkerOnlineSQL, name, interval).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check worker status: %w", err)
	}
	return count > 0, nil
}

func (s *PostgresStore) Register(ctx context.Context, name string) error {
	if _, err := s.db.Exec(ctx, database.InsertWorkerSQL, name); err != nil {
		return fmt.Errorf("failed to register worker: %w", err)
	}
	return nil
}

func (s *PostgresStore) SetStatus(ctx context.Context, name string, status models.WorkerStatus) error {
	if _, err := s.db.Exec(ctx, database.UpdateWorkerStatusSQL, status, name); err != nil {
		return fmt.Errorf("failed to update worker status: %w", err)
	}
	return nil
}

func (s *PostgresStore) TicketAccepted(ctx context.Context, name string) error {
	if _, err := s.db.Exec(ctx, database.IncrementWorkerTicketsSQL, name); err != nil {
		return fmt.Errorf("failed to update worker ticket count: %w", err)
	}
	return nil
}
