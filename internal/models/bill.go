package models

import "math"

// Bill represents a priced invoice for one store, comprising one or more
// product lines. The paid/pending fields are the only parts mutated after
// creation; everything else is written once.
type Bill struct {
	// ID is the unique identifier for the bill (UUID format).
	ID string `json:"id"`

	// BillNumber is the human-facing bill number. Unique across all bills,
	// whether supplied by the caller or allocated from the counter.
	BillNumber int64 `json:"billNumber"`

	// Store is the owning store, with its name populated on reads.
	Store StoreRef `json:"store"`

	// Products are the priced line items, in submitted order. Never empty.
	Products []ProductLine `json:"products"`

	// GrandTotal is the sum of all product final prices, rounded to 2dp.
	GrandTotal float64 `json:"grandTotal"`

	// PaidAmount is how much has been paid so far.
	// Always in [0, GrandTotal], rounded to 2dp.
	PaidAmount float64 `json:"paidAmount"`

	// PendingAmount is GrandTotal - PaidAmount, rounded to 2dp.
	// Recomputed together with PaidAmount on every payment update.
	PendingAmount float64 `json:"pendingAmount"`

	// Date is the Unix timestamp of the bill date.
	Date int64 `json:"date"`

	// CreatedAt is the Unix timestamp when the bill was persisted.
	CreatedAt int64 `json:"createdAt"`
}

// ProductLine is a single priced line on a bill.
type ProductLine struct {
	// ProductName is the display name of the product. Required.
	ProductName string `json:"productName"`

	// ProductCode is an optional merchant code for the product.
	ProductCode string `json:"productCode,omitempty"`

	// Quantity is an optional unit count; nil when the client omitted it.
	Quantity *float64 `json:"quantity,omitempty"`

	// Subtotal is the line amount before adjustments.
	// Currently mirrors FinalPrice (no discount logic).
	Subtotal float64 `json:"subtotal"`

	// FinalPrice is the amount this line contributes to the grand total.
	FinalPrice float64 `json:"finalPrice"`
}

// BillRef is the bill reference embedded in payments, with the bill
// number populated on reads.
type BillRef struct {
	ID         string `json:"billId"`
	BillNumber int64  `json:"billNumber"`
}

// Round2 rounds a monetary amount to 2 decimal places.
// All stored amounts (grand total, paid, pending, payment deltas) pass
// through this before persisting.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
