package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/billbook/backend/internal/models"
	"github.com/billbook/backend/internal/service"
)

// StoreHandler serves store CRUD.
type StoreHandler struct {
	stores *service.StoreService
}

// NewStoreHandler creates a StoreHandler backed by the given service.
func NewStoreHandler(stores *service.StoreService) *StoreHandler {
	return &StoreHandler{stores: stores}
}

type createStoreRequest struct {
	Name string `json:"name"`
}

// Create handles POST /api/stores.
func (h *StoreHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createStoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, &service.ValidationError{Msg: "invalid request body"})
		return
	}

	store, err := h.stores.CreateStore(r.Context(), req.Name)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, struct {
		Message string        `json:"message"`
		Store   *models.Store `json:"store"`
	}{Message: "Store saved", Store: store})
}

// List handles GET /api/stores.
func (h *StoreHandler) List(w http.ResponseWriter, r *http.Request) {
	stores, err := h.stores.ListStores(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, struct {
		Stores []*models.Store `json:"stores"`
	}{Stores: stores})
}

// Get handles GET /api/stores/{id}.
func (h *StoreHandler) Get(w http.ResponseWriter, r *http.Request) {
	store, err := h.stores.GetStore(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, struct {
		Store *models.Store `json:"store"`
	}{Store: store})
}
