package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/example/grocer-backend/internal/domain/catalog"
)

// ListProducts handles GET /api/products (public).
func (h *Handlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	page, limit, offset := parsePage(r, 20)
	q := r.URL.Query()
	f := catalog.ListFilter{
		Category:  q.Get("category"),
		Search:    q.Get("search"),
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
		Limit:     limit,
		Offset:    offset,
	}

	products, total, err := h.catalog.ListProducts(r.Context(), f)
	if err != nil {
		respondCatalogError(w, err)
		return
	}
	respondPaged(w, products, page, limit, total)
}

// GetProduct handles GET /api/products/{id} (public).
func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/products/")
	p, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		respondCatalogError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// CreateProduct handles POST /api/products (admin).
func (h *Handlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var in catalog.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	p, err := h.catalog.CreateProduct(r.Context(), in)
	if err != nil {
		respondCatalogError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

// UpdateProduct handles PUT /api/products/{id} (admin).
func (h *Handlers) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/products/")

	var in catalog.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	p, err := h.catalog.UpdateProduct(r.Context(), id, in)
	if err != nil {
		respondCatalogError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// DeleteProduct handles DELETE /api/products/{id} (admin). Products are
// soft-deleted so order snapshots keep their meaning.
func (h *Handlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/products/")
	if err := h.catalog.DeactivateProduct(r.Context(), id); err != nil {
		respondCatalogError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "product deactivated"})
}

func respondCatalogError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrProductNotFound), errors.Is(err, catalog.ErrCategoryNotFound):
		respondError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, catalog.ErrInvalidUnit):
		respondError(w, err.Error(), http.StatusBadRequest)
	default:
		log.Printf("[API] Catalog operation failed: %v", err)
		respondError(w, "internal error", http.StatusInternalServerError)
	}
}
