package service

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/billbook/backend/internal/models"
	"github.com/billbook/backend/internal/storage"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// ListPaymentsInput describes a payment listing request. From/To are
// optional inclusive Unix-timestamp bounds on the payment date.
type ListPaymentsInput struct {
	Page  int
	Limit int
	From  *int64
	To    *int64
}

// PaymentPage is one page of payment history with pagination metadata.
type PaymentPage struct {
	Payments   []*models.Payment `json:"payments"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalCount int64             `json:"totalCount"`
	TotalPages int               `json:"totalPages"`
}

// PaymentService records paid-amount updates and lists payment history.
type PaymentService struct {
	store storage.Store
}

// NewPaymentService creates a new PaymentService with the given storage backend.
func NewPaymentService(store storage.Store) *PaymentService {
	return &PaymentService{store: store}
}

// UpdatePaidAmount sets a bill's paid amount, clamped to the grand total,
// recomputes the pending amount, and appends a payment record when the
// paid amount strictly increased. Decreases and no-ops leave the history
// untouched. The bill update and payment append share one transaction.
func (s *PaymentService) UpdatePaidAmount(ctx context.Context, billID string, paidAmount *float64) (*models.Bill, error) {
	slog.Info("UpdatePaidAmount request received", "bill_id", billID)

	if _, err := uuid.Parse(billID); err != nil {
		return nil, validationf("invalid bill id")
	}
	if paidAmount == nil || math.IsNaN(*paidAmount) || math.IsInf(*paidAmount, 0) || *paidAmount < 0 {
		return nil, validationf("invalid paidAmount")
	}

	bill, err := s.store.GetBill(ctx, billID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, &NotFoundError{Msg: "bill not found"}
	}
	if err != nil {
		slog.Error("bill lookup failed", "bill_id", billID, "error", err)
		return nil, err
	}

	amount := *paidAmount
	if amount > bill.GrandTotal {
		amount = bill.GrandTotal
	}

	previousPaid := bill.PaidAmount
	bill.PaidAmount = models.Round2(amount)
	bill.PendingAmount = models.Round2(bill.GrandTotal - bill.PaidAmount)

	// Only a strict increase is audited; decreases pass through silently.
	var payment *models.Payment
	if bill.PaidAmount > previousPaid {
		payment = &models.Payment{
			Bill:         models.BillRef{ID: bill.ID, BillNumber: bill.BillNumber},
			Store:        bill.Store,
			Amount:       models.Round2(bill.PaidAmount - previousPaid),
			PreviousPaid: models.Round2(previousPaid),
			NewPaid:      bill.PaidAmount,
		}
	}

	if err := s.store.ApplyPayment(ctx, bill, payment); err != nil {
		slog.Error("payment update failed", "bill_id", billID, "error", err)
		return nil, err
	}

	slog.Info("Paid amount updated",
		"bill_id", bill.ID,
		"paid_amount", bill.PaidAmount,
		"pending_amount", bill.PendingAmount,
		"payment_logged", payment != nil,
	)
	return bill, nil
}

// ListPayments returns a page of payment history, newest-first. The limit
// is clamped to [1, 100] with a default of 10; page defaults to 1.
func (s *PaymentService) ListPayments(ctx context.Context, in ListPaymentsInput) (*PaymentPage, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	page := in.Page
	if page < 1 {
		page = 1
	}

	payments, total, err := s.store.ListPayments(ctx, storage.PaymentQuery{
		Limit:  limit,
		Offset: (page - 1) * limit,
		From:   in.From,
		To:     in.To,
	})
	if err != nil {
		slog.Error("ListPayments failed", "error", err)
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	if totalPages < 1 {
		totalPages = 1
	}
	if payments == nil {
		payments = []*models.Payment{}
	}

	return &PaymentPage{
		Payments:   payments,
		Page:       page,
		Limit:      limit,
		TotalCount: total,
		TotalPages: totalPages,
	}, nil
}
