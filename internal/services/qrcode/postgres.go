package qrcode

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Aayushshr101/digital-menu-backend/internal/database"
	"github.com/Aayushshr101/digital-menu-backend/internal/models"
)

type PostgresStore struct {
	db *database.DB
}

func NewPostgresStore(db *database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Activate records a new QR version and deactivates every earlier one.
func (s *PostgresStore) Activate(ctx context.Context, imageURL, publicID string) (*models.QRCode, error) {
	qr := &models.QRCode{ImageURL: imageURL, PublicID: publicID, IsActive: true}

	err := s.db.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, database.LockQRCodesSQL); err != nil {
			return fmt.Errorf("lock qr codes: %w", err)
		}
		if err := tx.QueryRow(ctx, database.NextQRCodeVersionSQL).Scan(&qr.Version); err != nil {
			return fmt.Errorf("next qr version: %w", err)
		}
		if _, err := tx.Exec(ctx, database.DeactivateQRCodesSQL); err != nil {
			return fmt.Errorf("deactivate qr codes: %w", err)
		}
		if err := tx.QueryRow(ctx, database.InsertQRCodeSQL, imageURL, publicID, qr.Version).Scan(&qr.ID, &qr.CreatedAt); err != nil {
			return fmt.Errorf("insert qr code: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return qr, nil
}

func (s *PostgresStore) Active(ctx context.Context) (*models.QRCode, error) {
	var qr models.QRCode
	err := s.db.QueryRow(ctx, database.GetActiveQRCodeSQL).Scan(
		&qr.ID, &qr.ImageURL, &qr.PublicID, &qr.Version, &qr.IsActive, &qr.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &models.NotFoundError{Resource: "qr code", ID: "active"}
	}
	if err != nil {
		return nil, fmt.Errorf("get active qr code: %w", err)
	}
	return &qr, nil
}
