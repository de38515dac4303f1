package menu

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Aayushshr101/digital-menu-backend/internal/database"
	"github.com/Aayushshr101/digital-menu-backend/internal/models"
)

// Store reads the catalog.
type Store interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListMenuItems(ctx context.Context) ([]models.MenuItem, error)
	GetMenuItems(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.MenuItem, error)
	ListTables(ctx context.Context) ([]models.Table, error)
	GetTable(ctx context.Context, id uuid.UUID) (*models.Table, error)
}

// PostgresStore implements Store on the catalog tables.
type PostgresStore struct {
	db *database.DB
}

func NewPostgresStore(db *database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.Query(ctx, database.ListCategoriesSQL)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *PostgresStore) ListMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	rows, err := s.db.Query(ctx, database.ListMenuItemsSQL)
	if err != nil {
		return nil, fmt.Errorf("query menu items: %w", err)
	}
	return collectMenuItems(rows)
}

func (s *PostgresStore) GetMenuItems(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.MenuItem, error) {
	rows, err := s.db.Query(ctx, database.GetMenuItemsByIDsSQL, ids)
	if err != nil {
		return nil, fmt.Errorf("query menu items: %w", err)
	}
	items, err := collectMenuItems(rows)
	if err != nil {
		return nil, err
	}
	return IndexByID(items), nil
}

func collectMenuItems(rows pgx.Rows) ([]models.MenuItem, error) {
	defer rows.Close()

	items := []models.MenuItem{}
	for rows.Next() {
		var (
			item         models.MenuItem
			categoryID   *uuid.UUID
			categoryName *string
		)
		err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.Price, &categoryID, &categoryName,
			&item.IsAvailable, &item.ImageURL, &item.Customizations, &item.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		if categoryID != nil && categoryName != nil {
			item.Category = &models.CategoryRef{ID: *categoryID, Name: *categoryName}
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *PostgresStore) ListTables(ctx context.Context) ([]models.Table, error) {
	rows, err := s.db.Query(ctx, database.ListTablesSQL)
	if err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
	}
	defer rows.Close()

	tables := []models.Table{}
	for rows.Next() {
		var t models.Table
		if err := rows.Scan(&t.ID, &t.TableNumber, &t.Capacity, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan table: %w", err)
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

func (s *PostgresStore) GetTable(ctx context.Context, id uuid.UUID) (*models.Table, error) {
	var t models.Table
	err := s.db.QueryRow(ctx, database.GetTableSQL, id).Scan(&t.ID, &t.TableNumber, &t.Capacity, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &models.NotFoundError{Resource: "table", ID: id.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("query table: %w", err)
	}
	return &t, nil
}
