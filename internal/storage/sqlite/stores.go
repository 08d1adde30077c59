package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/billbook/backend/internal/models"
	"github.com/billbook/backend/internal/storage"
)

// CreateStore persists a new store to the database.
func (s *SQLiteStore) CreateStore(ctx context.Context, store *models.Store) error {
	if store.ID == "" {
		store.ID = uuid.New().String()
	}
	if store.CreatedAt == 0 {
		store.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO stores (id, name, created_at) VALUES (?, ?, ?)",
		store.ID, store.Name, store.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrDuplicateStoreName
		}
		return fmt.Errorf("failed to insert store: %w", err)
	}

	return nil
}

// GetStore retrieves a store by ID.
func (s *SQLiteStore) GetStore(ctx context.Context, storeID string) (*models.Store, error) {
	store := &models.Store{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM stores WHERE id = ?",
		storeID,
	).Scan(&store.ID, &store.Name, &store.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get store: %w", err)
	}
	return store, nil
}

// GetOrCreateStoreByName looks a store up by exact name, creating it when
// missing. A concurrent creator winning the race is treated as success:
// the unique index on name turns the losing insert into a re-read.
func (s *SQLiteStore) GetOrCreateStoreByName(ctx context.Context, name string) (*models.Store, error) {
	store, err := s.getStoreByName(ctx, name)
	if err == nil {
		return store, nil
	}
	if err != storage.ErrNotFound {
		return nil, err
	}

	store = &models.Store{Name: name}
	if err := s.CreateStore(ctx, store); err != nil {
		if err == storage.ErrDuplicateStoreName {
			return s.getStoreByName(ctx, name)
		}
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) getStoreByName(ctx context.Context, name string) (*models.Store, error) {
	store := &models.Store{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM stores WHERE name = ?",
		name,
	).Scan(&store.ID, &store.Name, &store.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get store by name: %w", err)
	}
	return store, nil
}

// ListStores returns all stores ordered by name.
func (s *SQLiteStore) ListStores(ctx context.Context) ([]*models.Store, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, created_at FROM stores ORDER BY name",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}
	defer rows.Close()

	var stores []*models.Store
	for rows.Next() {
		store := &models.Store{}
		if err := rows.Scan(&store.ID, &store.Name, &store.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan store: %w", err)
		}
		stores = append(stores, store)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate stores: %w", err)
	}

	return stores, nil
}
