package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billbook/backend/internal/models"
	"github.com/billbook/backend/internal/storage"
)

// newPaidBill creates a 150.00 bill (Widget 100 + Gadget 50) for the
// payment scenarios.
func newPaidBill(t *testing.T, store storage.Store) *models.Bill {
	t.Helper()

	bill, err := NewBillService(store).CreateBill(context.Background(), CreateBillInput{
		StoreName: "Acme Traders",
		Products: []ProductInput{
			{ProductName: "Widget", FinalPrice: floatPtr(100)},
			{ProductName: "Gadget", FinalPrice: floatPtr(50)},
		},
	})
	require.NoError(t, err)
	return bill
}

func countPayments(t *testing.T, store storage.Store) int64 {
	t.Helper()

	_, total, err := store.ListPayments(context.Background(), storage.PaymentQuery{Limit: 1})
	require.NoError(t, err)
	return total
}

func TestUpdatePaidAmount(t *testing.T) {
	ctx := context.Background()

	t.Run("increase logs a payment with the delta", func(t *testing.T) {
		store := newTestStore(t)
		svc := NewPaymentService(store)
		bill := newPaidBill(t, store)

		updated, err := svc.UpdatePaidAmount(ctx, bill.ID, floatPtr(60))
		require.NoError(t, err)
		assert.Equal(t, 60.0, updated.PaidAmount)
		assert.Equal(t, 90.0, updated.PendingAmount)

		payments, total, err := store.ListPayments(ctx, storage.PaymentQuery{Limit: 10})
		require.NoError(t, err)
		require.Equal(t, int64(1), total)
		assert.Equal(t, 60.0, payments[0].Amount)
		assert.Equal(t, 0.0, payments[0].PreviousPaid)
		assert.Equal(t, 60.0, payments[0].NewPaid)
		assert.Equal(t, bill.ID, payments[0].Bill.ID)
		assert.Equal(t, bill.BillNumber, payments[0].Bill.BillNumber)
	})

	t.Run("amount above the total is clamped", func(t *testing.T) {
		store := newTestStore(t)
		svc := NewPaymentService(store)
		bill := newPaidBill(t, store)

		updated, err := svc.UpdatePaidAmount(ctx, bill.ID, floatPtr(500))
		require.NoError(t, err)
		assert.Equal(t, 150.0, updated.PaidAmount)
		assert.Equal(t, 0.0, updated.PendingAmount)

		payments, _, err := store.ListPayments(ctx, storage.PaymentQuery{Limit: 10})
		require.NoError(t, err)
		require.Len(t, payments, 1)
		assert.Equal(t, 150.0, payments[0].Amount)
	})

	t.Run("decrease updates the bill but logs nothing", func(t *testing.T) {
		store := newTestStore(t)
		svc := NewPaymentService(store)
		bill := newPaidBill(t, store)

		_, err := svc.UpdatePaidAmount(ctx, bill.ID, floatPtr(60))
		require.NoError(t, err)

		updated, err := svc.UpdatePaidAmount(ctx, bill.ID, floatPtr(30))
		require.NoError(t, err)
		assert.Equal(t, 30.0, updated.PaidAmount)
		assert.Equal(t, 120.0, updated.PendingAmount)
		assert.Equal(t, int64(1), countPayments(t, store))
	})

	t.Run("no-op logs nothing", func(t *testing.T) {
		store := newTestStore(t)
		svc := NewPaymentService(store)
		bill := newPaidBill(t, store)

		_, err := svc.UpdatePaidAmount(ctx, bill.ID, floatPtr(60))
		require.NoError(t, err)

		_, err = svc.UpdatePaidAmount(ctx, bill.ID, floatPtr(60))
		require.NoError(t, err)
		assert.Equal(t, int64(1), countPayments(t, store))
	})

	t.Run("pending always equals total minus paid across updates", func(t *testing.T) {
		store := newTestStore(t)
		svc := NewPaymentService(store)
		bill := newPaidBill(t, store)

		for _, amount := range []float64{10, 75.25, 20, 150, 0} {
			updated, err := svc.UpdatePaidAmount(ctx, bill.ID, floatPtr(amount))
			require.NoError(t, err)
			assert.Equal(t, models.Round2(updated.GrandTotal-updated.PaidAmount), updated.PendingAmount)
			assert.LessOrEqual(t, updated.PaidAmount, updated.GrandTotal)
		}
	})

	t.Run("rejects bad input", func(t *testing.T) {
		store := newTestStore(t)
		svc := NewPaymentService(store)
		bill := newPaidBill(t, store)
		var verr *ValidationError

		_, err := svc.UpdatePaidAmount(ctx, "not-a-uuid", floatPtr(10))
		assert.ErrorAs(t, err, &verr)

		_, err = svc.UpdatePaidAmount(ctx, bill.ID, nil)
		assert.ErrorAs(t, err, &verr)

		_, err = svc.UpdatePaidAmount(ctx, bill.ID, floatPtr(-5))
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("unknown bill is not found", func(t *testing.T) {
		svc := NewPaymentService(newTestStore(t))

		_, err := svc.UpdatePaidAmount(ctx, "b2f7f7e8-0000-0000-0000-000000000000", floatPtr(10))
		var nferr *NotFoundError
		assert.ErrorAs(t, err, &nferr)
	})
}

func TestListPayments(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	svc := NewPaymentService(store)
	bill := newPaidBill(t, store)

	// three increases, three payment records
	for _, amount := range []float64{10, 20, 30} {
		_, err := svc.UpdatePaidAmount(ctx, bill.ID, floatPtr(amount))
		require.NoError(t, err)
	}

	t.Run("defaults apply", func(t *testing.T) {
		page, err := svc.ListPayments(ctx, ListPaymentsInput{})
		require.NoError(t, err)
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, 10, page.Limit)
		assert.Equal(t, int64(3), page.TotalCount)
		assert.Equal(t, 1, page.TotalPages)
		assert.Len(t, page.Payments, 3)
	})

	t.Run("limit is clamped to 100", func(t *testing.T) {
		page, err := svc.ListPayments(ctx, ListPaymentsInput{Limit: 1000})
		require.NoError(t, err)
		assert.Equal(t, 100, page.Limit)
	})

	t.Run("pages split the result set", func(t *testing.T) {
		page, err := svc.ListPayments(ctx, ListPaymentsInput{Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, 2, page.TotalPages)
		assert.Len(t, page.Payments, 2)

		last, err := svc.ListPayments(ctx, ListPaymentsInput{Limit: 2, Page: 2})
		require.NoError(t, err)
		assert.Len(t, last.Payments, 1)
	})

	t.Run("empty history still reports one page", func(t *testing.T) {
		empty := NewPaymentService(newTestStore(t))
		page, err := empty.ListPayments(ctx, ListPaymentsInput{})
		require.NoError(t, err)
		assert.Equal(t, int64(0), page.TotalCount)
		assert.Equal(t, 1, page.TotalPages)
		assert.Empty(t, page.Payments)
	})
}
