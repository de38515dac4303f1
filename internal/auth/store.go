package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Aayushshr101/digital-menu-backend/internal/database"
	"github.com/Aayushshr101/digital-menu-backend/internal/models"
)

// Store persists staff accounts.
type Store interface {
	GetByUsername(ctx context.Context, username string) (*models.Staff, error)
	Upsert(ctx context.Context, username, passwordHash string, role models.Role) error
}

type PostgresStore struct {
	db *database.DB
}

func NewPostgresStore(db *database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) GetByUsername(ctx context.Context, username string) (*models.Staff, error) {
	var st models.Staff
	err := s.db.QueryRow(ctx, database.GetStaffByUsernameSQL, username).Scan(
		&st.ID, &st.Username, &st.PasswordHash, &st.Role, &st.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &models.NotFoundError{Resource: "staff", ID: username}
	}
	if err != nil {
		return nil, fmt.Errorf("get staff: %w", err)
	}
	return &st, nil
}

func (s *PostgresStore) Upsert(ctx context.Context, username, passwordHash string, role models.Role) error {
	if _, err := s.db.Exec(ctx, database.UpsertStaffSQL, username, passwordHash, role); err != nil {
		return fmt.Errorf("upsert staff: %w", err)
	}
	return nil
}
