package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/billbook/backend/internal/models"
	"github.com/billbook/backend/internal/service"
)

// PaymentHandler serves paid-amount updates and payment history.
type PaymentHandler struct {
	payments *service.PaymentService
}

// NewPaymentHandler creates a PaymentHandler backed by the given service.
func NewPaymentHandler(payments *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

type updatePaidRequest struct {
	PaidAmount *float64 `json:"paidAmount"`
}

// UpdatePaid handles PATCH /api/bills/{id}/paid.
func (h *PaymentHandler) UpdatePaid(w http.ResponseWriter, r *http.Request) {
	var req updatePaidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, &service.ValidationError{Msg: "invalid request body"})
		return
	}

	bill, err := h.payments.UpdatePaidAmount(r.Context(), mux.Vars(r)["id"], req.PaidAmount)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, struct {
		Message string       `json:"message"`
		Bill    *models.Bill `json:"bill"`
	}{Message: "Paid amount updated", Bill: bill})
}

// List handles GET /api/payments?limit=&page=&from=&to=.
func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	// Unparsable numbers fall back to the defaults, and unparsable dates
	// are ignored, matching how older clients were treated.
	limit, _ := strconv.Atoi(q.Get("limit"))
	page, _ := strconv.Atoi(q.Get("page"))

	result, err := h.payments.ListPayments(r.Context(), service.ListPaymentsInput{
		Page:  page,
		Limit: limit,
		From:  parseDate(q.Get("from")),
		To:    parseDate(q.Get("to")),
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// parseDate parses an RFC 3339 timestamp or a YYYY-MM-DD date into a Unix
// timestamp. Returns nil for empty or unparsable input.
func parseDate(raw string) *int64 {
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			ts := t.Unix()
			return &ts
		}
	}
	return nil
}
