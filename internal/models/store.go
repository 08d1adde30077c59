package models

// Store represents a shop that bills are issued against.
// Stores are created explicitly via the store API, or lazily when a bill
// references a store by name that does not exist yet.
type Store struct {
	// ID is the unique identifier for the store (UUID format).
	ID string `json:"storeId"`

	// Name is the store's display name. Unique, stored trimmed.
	Name string `json:"name"`

	// CreatedAt is the Unix timestamp when the store was created.
	CreatedAt int64 `json:"createdAt"`
}

// StoreRef is the store reference embedded in bills and payments,
// with the name populated on reads for display purposes.
type StoreRef struct {
	ID   string `json:"storeId"`
	Name string `json:"name"`
}
