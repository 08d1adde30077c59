package models

// Payment is an append-only audit record for a positive increase in a
// bill's paid amount. No record is written for decreases or no-ops, so the
// payment history only ever grows.
type Payment struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string `json:"id"`

	// Bill references the bill this payment was applied to.
	Bill BillRef `json:"bill"`

	// Store references the store owning the bill.
	Store StoreRef `json:"store"`

	// Amount is the positive delta applied, rounded to 2dp.
	Amount float64 `json:"amount"`

	// PreviousPaid is the bill's paid amount before this payment.
	PreviousPaid float64 `json:"previousPaid"`

	// NewPaid is the bill's paid amount after this payment.
	NewPaid float64 `json:"newPaid"`

	// Date is the Unix timestamp when the payment was recorded.
	Date int64 `json:"date"`

	// CreatedAt is the Unix timestamp when the record was persisted.
	CreatedAt int64 `json:"createdAt"`
}
