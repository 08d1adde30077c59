package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/billbook/backend/internal/middleware"
	"github.com/billbook/backend/internal/service"
	"github.com/billbook/backend/internal/storage"
)

// NewRouter builds the API router: bill, payment and store endpoints under
// /api, plus health and metrics. Static file serving is mounted by the
// caller so the router stays test-friendly.
func NewRouter(store storage.Store) *mux.Router {
	bills := NewBillHandler(service.NewBillService(store))
	payments := NewPaymentHandler(service.NewPaymentService(store))
	stores := NewStoreHandler(service.NewStoreService(store))

	r := mux.NewRouter()
	r.Use(middleware.Metrics)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/bills", bills.Create).Methods(http.MethodPost)
	api.HandleFunc("/bills/search", bills.Search).Methods(http.MethodGet)
	api.HandleFunc("/bills/{id}/paid", payments.UpdatePaid).Methods(http.MethodPatch)
	api.HandleFunc("/payments", payments.List).Methods(http.MethodGet)
	api.HandleFunc("/stores", stores.Create).Methods(http.MethodPost)
	api.HandleFunc("/stores", stores.List).Methods(http.MethodGet)
	api.HandleFunc("/stores/{id}", stores.Get).Methods(http.MethodGet)

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if err := store.Ping(req.Context()); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	return r
}
