// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/billbook/backend/internal/models"
)

// Sentinel errors returned by Store implementations. Callers match them
// with errors.Is and translate them into caller-facing error kinds.
var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateBillNumber is returned when inserting a bill whose number
	// is already taken. Backed by a unique index, so it holds even when two
	// requests race past the application-level existence check.
	ErrDuplicateBillNumber = errors.New("bill number already exists")

	// ErrDuplicateStoreName is returned when creating a store whose name
	// is already taken.
	ErrDuplicateStoreName = errors.New("store name already exists")
)

// BillFilter selects bills by exact match on the present criteria.
// A zero filter matches all bills.
type BillFilter struct {
	BillNumber *int64
	StoreID    string
}

// PaymentQuery describes a paginated, optionally date-bounded payment
// listing. From/To are inclusive Unix-timestamp bounds; nil means open.
type PaymentQuery struct {
	Limit  int
	Offset int
	From   *int64
	To     *int64
}

// Store defines the interface for billing storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer.
type Store interface {
	// CreateStore persists a new store. The ID and CreatedAt fields are
	// populated by the store. Returns ErrDuplicateStoreName on a name clash.
	CreateStore(ctx context.Context, store *models.Store) error

	// GetStore retrieves a store by ID. Returns ErrNotFound when absent.
	GetStore(ctx context.Context, storeID string) (*models.Store, error)

	// GetOrCreateStoreByName looks a store up by exact (trimmed) name and
	// creates it when missing. Idempotent under concurrent callers.
	GetOrCreateStoreByName(ctx context.Context, name string) (*models.Store, error)

	// ListStores returns all stores ordered by name.
	ListStores(ctx context.Context) ([]*models.Store, error)

	// CreateBill persists a new bill and its product lines in one
	// transaction. ID, Date and CreatedAt are populated by the store.
	// Returns ErrDuplicateBillNumber when the bill number is taken.
	CreateBill(ctx context.Context, bill *models.Bill) error

	// GetBill retrieves a bill by ID with its product lines and store name.
	// Returns ErrNotFound when absent.
	GetBill(ctx context.Context, billID string) (*models.Bill, error)

	// BillNumberExists reports whether any bill already uses the number.
	BillNumberExists(ctx context.Context, number int64) (bool, error)

	// SearchBills returns bills matching the filter, newest-first.
	SearchBills(ctx context.Context, filter BillFilter) ([]*models.Bill, error)

	// ApplyPayment updates a bill's paid/pending amounts and, when payment
	// is non-nil, appends the payment record. Both writes happen in one
	// transaction.
	ApplyPayment(ctx context.Context, bill *models.Bill, payment *models.Payment) error

	// ListPayments returns a page of payments newest-first along with the
	// total count matching the query's date bounds.
	ListPayments(ctx context.Context, q PaymentQuery) ([]*models.Payment, int64, error)

	// NextSequence atomically increments and returns the named counter,
	// creating it at 1 on first use. Values are never reused.
	NextSequence(ctx context.Context, name string) (int64, error)

	// Ping verifies the underlying storage is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
