package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billbook/backend/internal/storage"
	"github.com/billbook/backend/internal/storage/sqlite"
)

func newTestStore(t *testing.T) storage.Store {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "failed to create store")
	t.Cleanup(func() { store.Close() })

	return store
}

func floatPtr(v float64) *float64 { return &v }

func productList(prices ...float64) []ProductInput {
	names := []string{"Widget", "Gadget", "Gizmo", "Doodad"}
	products := make([]ProductInput, len(prices))
	for i, price := range prices {
		products[i] = ProductInput{ProductName: names[i%len(names)], FinalPrice: floatPtr(price)}
	}
	return products
}

func TestCreateBill(t *testing.T) {
	ctx := context.Background()

	t.Run("computes totals and initializes paid/pending", func(t *testing.T) {
		svc := NewBillService(newTestStore(t))

		bill, err := svc.CreateBill(ctx, CreateBillInput{
			StoreName: "Acme Traders",
			Products:  productList(100, 50),
		})
		require.NoError(t, err)

		assert.Equal(t, 150.0, bill.GrandTotal)
		assert.Equal(t, 0.0, bill.PaidAmount)
		assert.Equal(t, 150.0, bill.PendingAmount)
		assert.Equal(t, "Acme Traders", bill.Store.Name)
		require.Len(t, bill.Products, 2)
		assert.Equal(t, 100.0, bill.Products[0].Subtotal)
		assert.Equal(t, 100.0, bill.Products[0].FinalPrice)
	})

	t.Run("rounds the grand total to 2 decimals", func(t *testing.T) {
		svc := NewBillService(newTestStore(t))

		bill, err := svc.CreateBill(ctx, CreateBillInput{
			StoreName: "Acme Traders",
			Products:  productList(0.1, 0.2),
		})
		require.NoError(t, err)

		assert.Equal(t, 0.3, bill.GrandTotal)
		assert.Equal(t, 0.3, bill.PendingAmount)
	})

	t.Run("rejects an empty product list", func(t *testing.T) {
		svc := NewBillService(newTestStore(t))

		_, err := svc.CreateBill(ctx, CreateBillInput{StoreName: "Acme Traders"})
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("reports the first invalid product index", func(t *testing.T) {
		svc := NewBillService(newTestStore(t))

		_, err := svc.CreateBill(ctx, CreateBillInput{
			StoreName: "Acme Traders",
			Products: []ProductInput{
				{ProductName: "Widget", FinalPrice: floatPtr(10)},
				{ProductName: "", FinalPrice: floatPtr(5)},
			},
		})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Msg, "index 1")
		assert.Contains(t, verr.Msg, "productName")

		_, err = svc.CreateBill(ctx, CreateBillInput{
			StoreName: "Acme Traders",
			Products:  []ProductInput{{ProductName: "Widget"}},
		})
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Msg, "index 0")
		assert.Contains(t, verr.Msg, "finalPrice")
	})

	t.Run("creates the store lazily by name", func(t *testing.T) {
		store := newTestStore(t)
		svc := NewBillService(store)

		first, err := svc.CreateBill(ctx, CreateBillInput{
			StoreName: "  Corner Shop  ",
			Products:  productList(10),
		})
		require.NoError(t, err)
		assert.Equal(t, "Corner Shop", first.Store.Name)

		// same trimmed name resolves to the same store
		second, err := svc.CreateBill(ctx, CreateBillInput{
			StoreName: "Corner Shop",
			Products:  productList(20),
		})
		require.NoError(t, err)
		assert.Equal(t, first.Store.ID, second.Store.ID)

		stores, err := store.ListStores(ctx)
		require.NoError(t, err)
		assert.Len(t, stores, 1)
	})

	t.Run("rejects unknown and malformed store ids", func(t *testing.T) {
		svc := NewBillService(newTestStore(t))

		_, err := svc.CreateBill(ctx, CreateBillInput{
			StoreID:  "not-a-uuid",
			Products: productList(10),
		})
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)

		_, err = svc.CreateBill(ctx, CreateBillInput{
			StoreID:  "b2f7f7e8-0000-0000-0000-000000000000",
			Products: productList(10),
		})
		var nferr *NotFoundError
		assert.ErrorAs(t, err, &nferr)
	})

	t.Run("requires exactly one of storeId and storeName", func(t *testing.T) {
		svc := NewBillService(newTestStore(t))
		var verr *ValidationError

		_, err := svc.CreateBill(ctx, CreateBillInput{Products: productList(10)})
		assert.ErrorAs(t, err, &verr)

		_, err = svc.CreateBill(ctx, CreateBillInput{
			StoreID:   "b2f7f7e8-0000-0000-0000-000000000000",
			StoreName: "Acme Traders",
			Products:  productList(10),
		})
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("allocates strictly increasing bill numbers", func(t *testing.T) {
		svc := NewBillService(newTestStore(t))

		var last int64
		for i := 0; i < 3; i++ {
			bill, err := svc.CreateBill(ctx, CreateBillInput{
				StoreName: "Acme Traders",
				Products:  productList(10),
			})
			require.NoError(t, err)
			assert.Greater(t, bill.BillNumber, last)
			last = bill.BillNumber
		}
	})

	t.Run("accepts an explicit bill number and rejects duplicates", func(t *testing.T) {
		store := newTestStore(t)
		svc := NewBillService(store)

		bill, err := svc.CreateBill(ctx, CreateBillInput{
			StoreName:  "Acme Traders",
			BillNumber: floatPtr(1001),
			Products:   productList(10),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1001), bill.BillNumber)

		_, err = svc.CreateBill(ctx, CreateBillInput{
			StoreName:  "Acme Traders",
			BillNumber: floatPtr(1001),
			Products:   productList(20),
		})
		var cerr *ConflictError
		require.ErrorAs(t, err, &cerr)

		// the conflicting request must not have persisted a bill
		bills, err := store.SearchBills(ctx, storage.BillFilter{})
		require.NoError(t, err)
		assert.Len(t, bills, 1)
	})

	t.Run("rejects non-positive and fractional bill numbers", func(t *testing.T) {
		svc := NewBillService(newTestStore(t))
		var verr *ValidationError

		for _, bn := range []float64{0, -3, 1.5} {
			_, err := svc.CreateBill(ctx, CreateBillInput{
				StoreName:  "Acme Traders",
				BillNumber: floatPtr(bn),
				Products:   productList(10),
			})
			assert.ErrorAs(t, err, &verr, "billNumber %v should be rejected", bn)
		}
	})
}

func TestSearchBills(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	svc := NewBillService(store)

	first, err := svc.CreateBill(ctx, CreateBillInput{
		StoreName: "Acme Traders",
		Products:  productList(100),
	})
	require.NoError(t, err)

	_, err = svc.CreateBill(ctx, CreateBillInput{
		StoreName: "Corner Shop",
		Products:  productList(50),
	})
	require.NoError(t, err)

	t.Run("no filters returns all bills", func(t *testing.T) {
		bills, err := svc.SearchBills(ctx, nil, "")
		require.NoError(t, err)
		assert.Len(t, bills, 2)
	})

	t.Run("filters by store", func(t *testing.T) {
		bills, err := svc.SearchBills(ctx, nil, first.Store.ID)
		require.NoError(t, err)
		require.Len(t, bills, 1)
		assert.Equal(t, first.ID, bills[0].ID)
	})

	t.Run("filters by bill number", func(t *testing.T) {
		bills, err := svc.SearchBills(ctx, &first.BillNumber, "")
		require.NoError(t, err)
		require.Len(t, bills, 1)
		assert.Equal(t, first.ID, bills[0].ID)
	})

	t.Run("rejects a malformed store id", func(t *testing.T) {
		_, err := svc.SearchBills(ctx, nil, "not-a-uuid")
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})
}
