package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/example/grocer-backend/internal/domain/bcoin"
	"github.com/example/grocer-backend/internal/domain/catalog"
	"github.com/example/grocer-backend/internal/domain/order"
)

// CreateOrder handles POST /api/orders/create-order.
func (h *Handlers) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req order.PlaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	placed, err := h.orders.Place(r.Context(), claims(r).UserID, req)
	if err != nil {
		respondOrderError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, placed)
}

// MyOrders handles GET /api/orders/my-orders.
func (h *Handlers) MyOrders(w http.ResponseWriter, r *http.Request) {
	page, limit, offset := parsePage(r, 10)
	status := order.Status(r.URL.Query().Get("status"))

	orders, total, err := h.orders.ListByUser(r.Context(), claims(r).UserID, status, limit, offset)
	if err != nil {
		respondOrderError(w, err)
		return
	}
	respondPaged(w, orders, page, limit, total)
}

// GetOrder handles GET /api/orders/{id}. Buyers see only their own orders;
// admins see all.
func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/orders/")

	o, err := h.orders.Get(r.Context(), id)
	if err != nil {
		respondOrderError(w, err)
		return
	}
	if o.UserID != claims(r).UserID && !isAdmin(r) {
		respondError(w, "order not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

// ListOrders handles GET /api/orders (admin).
func (h *Handlers) ListOrders(w http.ResponseWriter, r *http.Request) {
	page, limit, offset := parsePage(r, 20)
	f := order.ListFilter{
		Status: order.Status(r.URL.Query().Get("status")),
		UserID: r.URL.Query().Get("user_id"),
		Limit:  limit,
		Offset: offset,
	}

	orders, total, err := h.orders.List(r.Context(), f)
	if err != nil {
		respondOrderError(w, err)
		return
	}
	respondPaged(w, orders, page, limit, total)
}

// UpdateOrderStatus handles PATCH /api/orders/{id}/status (admin).
func (h *Handlers) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/orders/")
	id = strings.TrimSuffix(id, "/status")

	var req struct {
		Status order.Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.orders.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		respondOrderError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// respondOrderError maps workflow errors onto the HTTP taxonomy: caller
// errors and business-rule rejections are 400 with the specific reason,
// missing orders are 404, infrastructure failures are opaque 500s.
func respondOrderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, order.ErrOrderNotFound):
		respondError(w, "order not found", http.StatusNotFound)
	case errors.Is(err, order.ErrEmptyOrder),
		errors.Is(err, order.ErrInvalidQuantity),
		errors.Is(err, order.ErrInvalidPaymentMode),
		errors.Is(err, order.ErrInvalidStatus),
		errors.Is(err, order.ErrStatusConflict),
		errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, catalog.ErrInsufficientStock),
		errors.Is(err, bcoin.ErrInsufficientBalance):
		respondError(w, err.Error(), http.StatusBadRequest)
	default:
		log.Printf("[API] Order operation failed: %v", err)
		respondError(w, "internal error", http.StatusInternalServerError)
	}
}
