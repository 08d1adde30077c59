package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/billbook/backend/internal/models"
	"github.com/billbook/backend/internal/storage"
)

// StoreService implements store CRUD.
type StoreService struct {
	store storage.Store
}

// NewStoreService creates a new StoreService with the given storage backend.
func NewStoreService(store storage.Store) *StoreService {
	return &StoreService{store: store}
}

// CreateStore creates a store with the given (trimmed) name.
func (s *StoreService) CreateStore(ctx context.Context, name string) (*models.Store, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationf("store name is required")
	}

	store := &models.Store{Name: name}
	if err := s.store.CreateStore(ctx, store); err != nil {
		if errors.Is(err, storage.ErrDuplicateStoreName) {
			return nil, &ConflictError{Msg: "store name already exists"}
		}
		slog.Error("CreateStore failed", "store_name", name, "error", err)
		return nil, err
	}

	slog.Info("Store created", "store_id", store.ID, "store_name", store.Name)
	return store, nil
}

// GetStore retrieves a store by ID.
func (s *StoreService) GetStore(ctx context.Context, storeID string) (*models.Store, error) {
	if _, err := uuid.Parse(storeID); err != nil {
		return nil, validationf("invalid storeId")
	}

	store, err := s.store.GetStore(ctx, storeID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, &NotFoundError{Msg: "store not found"}
	}
	if err != nil {
		slog.Error("GetStore failed", "store_id", storeID, "error", err)
		return nil, err
	}
	return store, nil
}

// ListStores returns all stores ordered by name.
func (s *StoreService) ListStores(ctx context.Context) ([]*models.Store, error) {
	stores, err := s.store.ListStores(ctx)
	if err != nil {
		slog.Error("ListStores failed", "error", err)
		return nil, err
	}
	if stores == nil {
		stores = []*models.Store{}
	}
	return stores, nil
}
