package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/billbook/backend/internal/models"
	"github.com/billbook/backend/internal/service"
)

// BillHandler serves bill creation and search.
type BillHandler struct {
	bills *service.BillService
}

// NewBillHandler creates a BillHandler backed by the given service.
func NewBillHandler(bills *service.BillService) *BillHandler {
	return &BillHandler{bills: bills}
}

// createBillRequest is the POST /api/bills body. Items is a legacy alias
// for Products kept for older clients; it is normalized away before
// validation.
type createBillRequest struct {
	StoreID    string                 `json:"storeId"`
	StoreName  string                 `json:"storeName"`
	BillNumber *float64               `json:"billNumber"`
	Products   []service.ProductInput `json:"products"`
	Items      []service.ProductInput `json:"items"`
}

type billResponse struct {
	Message string       `json:"message"`
	Bill    *models.Bill `json:"bill"`
}

// Create handles POST /api/bills.
func (h *BillHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, &service.ValidationError{Msg: "invalid request body"})
		return
	}

	products := req.Products
	if len(products) == 0 {
		products = req.Items
	}

	bill, err := h.bills.CreateBill(r.Context(), service.CreateBillInput{
		StoreID:    req.StoreID,
		StoreName:  req.StoreName,
		BillNumber: req.BillNumber,
		Products:   products,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, billResponse{Message: "Bill saved", Bill: bill})
}

type searchBillsResponse struct {
	Bills []*models.Bill `json:"bills"`
}

// Search handles GET /api/bills/search?billNumber=&storeId=.
func (h *BillHandler) Search(w http.ResponseWriter, r *http.Request) {
	var billNumber *int64
	if raw := r.URL.Query().Get("billNumber"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondError(w, &service.ValidationError{Msg: "invalid billNumber"})
			return
		}
		billNumber = &n
	}

	bills, err := h.bills.SearchBills(r.Context(), billNumber, r.URL.Query().Get("storeId"))
	if err != nil {
		respondError(w, err)
		return
	}
	if bills == nil {
		bills = []*models.Bill{}
	}

	respondJSON(w, http.StatusOK, searchBillsResponse{Bills: bills})
}
