package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/billbook/backend/internal/models"
	"github.com/billbook/backend/internal/storage"
)

// validate checks request structs; the first failing field wins.
var validate = validator.New()

// billCounter is the counter name backing automatic bill numbering.
const billCounter = "bill"

// ProductInput is one submitted product line, before normalization.
type ProductInput struct {
	ProductName string   `json:"productName" validate:"required"`
	ProductCode string   `json:"productCode"`
	Quantity    *float64 `json:"quantity"`
	FinalPrice  *float64 `json:"finalPrice" validate:"required"`
}

// CreateBillInput carries a normalized bill-creation request.
// Exactly one of StoreID/StoreName must be set; BillNumber nil means
// "allocate the next number".
type CreateBillInput struct {
	StoreID    string
	StoreName  string
	BillNumber *float64
	Products   []ProductInput
}

// BillService implements bill creation and search.
type BillService struct {
	store storage.Store
}

// NewBillService creates a new BillService with the given storage backend.
func NewBillService(store storage.Store) *BillService {
	return &BillService{store: store}
}

// CreateBill validates the input, resolves the owning store (creating it
// by name when needed), resolves the bill number, computes totals, and
// persists the bill. A store created by name is not rolled back if a later
// step fails.
func (s *BillService) CreateBill(ctx context.Context, in CreateBillInput) (*models.Bill, error) {
	slog.Info("CreateBill request received",
		"store_id", in.StoreID,
		"store_name", in.StoreName,
		"products_count", len(in.Products),
	)

	if len(in.Products) == 0 {
		return nil, validationf("no products provided; include a products (or items) array with at least one product")
	}
	for i, p := range in.Products {
		if err := validateProduct(i, p); err != nil {
			return nil, err
		}
	}

	store, err := s.resolveStore(ctx, in.StoreID, in.StoreName)
	if err != nil {
		return nil, err
	}

	billNumber, err := s.resolveBillNumber(ctx, in.BillNumber)
	if err != nil {
		return nil, err
	}

	products := make([]models.ProductLine, 0, len(in.Products))
	var grandTotal float64
	for _, p := range in.Products {
		finalPrice := *p.FinalPrice
		grandTotal += finalPrice
		products = append(products, models.ProductLine{
			ProductName: p.ProductName,
			ProductCode: p.ProductCode,
			Quantity:    p.Quantity,
			Subtotal:    finalPrice,
			FinalPrice:  finalPrice,
		})
	}
	grandTotal = models.Round2(grandTotal)

	bill := &models.Bill{
		BillNumber:    billNumber,
		Store:         models.StoreRef{ID: store.ID, Name: store.Name},
		Products:      products,
		GrandTotal:    grandTotal,
		PaidAmount:    0,
		PendingAmount: grandTotal,
	}

	if err := s.store.CreateBill(ctx, bill); err != nil {
		if errors.Is(err, storage.ErrDuplicateBillNumber) {
			return nil, &ConflictError{Msg: "bill number already exists"}
		}
		slog.Error("CreateBill failed", "error", err)
		return nil, err
	}

	slog.Info("Bill created", "bill_id", bill.ID, "bill_number", bill.BillNumber, "grand_total", bill.GrandTotal)
	return bill, nil
}

// SearchBills returns bills matching the given exact-match criteria.
// No criteria means all bills.
func (s *BillService) SearchBills(ctx context.Context, billNumber *int64, storeID string) ([]*models.Bill, error) {
	if storeID != "" {
		if _, err := uuid.Parse(storeID); err != nil {
			return nil, validationf("invalid storeId")
		}
	}

	bills, err := s.store.SearchBills(ctx, storage.BillFilter{
		BillNumber: billNumber,
		StoreID:    storeID,
	})
	if err != nil {
		slog.Error("SearchBills failed", "error", err)
		return nil, err
	}
	return bills, nil
}

// validateProduct checks one product line, reporting the offending index
// and field of the first failure.
func validateProduct(index int, p ProductInput) error {
	if err := validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			switch verrs[0].Field() {
			case "ProductName":
				return validationf("product at index %d is missing productName", index)
			case "FinalPrice":
				return validationf("product at index %d requires a valid finalPrice", index)
			}
		}
		return validationf("product at index %d is invalid", index)
	}
	if math.IsNaN(*p.FinalPrice) || math.IsInf(*p.FinalPrice, 0) {
		return validationf("product at index %d requires a valid finalPrice", index)
	}
	return nil
}

// resolveStore returns the owning store for a new bill. A storeId must
// reference an existing store; a storeName is get-or-create.
func (s *BillService) resolveStore(ctx context.Context, storeID, storeName string) (*models.Store, error) {
	storeName = strings.TrimSpace(storeName)

	switch {
	case storeID != "" && storeName != "":
		return nil, validationf("provide either storeId or storeName, not both")
	case storeID != "":
		if _, err := uuid.Parse(storeID); err != nil {
			return nil, validationf("invalid storeId")
		}
		store, err := s.store.GetStore(ctx, storeID)
		if errors.Is(err, storage.ErrNotFound) {
			return nil, &NotFoundError{Msg: "store not found"}
		}
		if err != nil {
			slog.Error("store lookup failed", "store_id", storeID, "error", err)
			return nil, err
		}
		return store, nil
	case storeName != "":
		store, err := s.store.GetOrCreateStoreByName(ctx, storeName)
		if err != nil {
			slog.Error("store get-or-create failed", "store_name", storeName, "error", err)
			return nil, err
		}
		return store, nil
	default:
		return nil, validationf("provide storeId or storeName")
	}
}

// resolveBillNumber validates an explicit bill number or allocates the
// next one from the counter. The explicit-number existence check is a fast
// path only; the unique index catches races at insert time.
func (s *BillService) resolveBillNumber(ctx context.Context, explicit *float64) (int64, error) {
	if explicit != nil {
		bn := *explicit
		if math.IsNaN(bn) || math.IsInf(bn, 0) || bn <= 0 || bn != math.Trunc(bn) {
			return 0, validationf("invalid billNumber")
		}
		number := int64(bn)
		exists, err := s.store.BillNumberExists(ctx, number)
		if err != nil {
			return 0, err
		}
		if exists {
			return 0, &ConflictError{Msg: "bill number already exists"}
		}
		return number, nil
	}

	number, err := s.store.NextSequence(ctx, billCounter)
	if err != nil {
		slog.Error("bill number allocation failed", "error", err)
		return 0, err
	}
	return number, nil
}
