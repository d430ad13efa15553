package api

import (
	"encoding/json"
	"net/http"
	"strings"
)

// ListCategories handles GET /api/categories (public).
func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		respondCatalogError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

// CreateCategory handles POST /api/categories (admin).
func (h *Handlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		respondError(w, "category name is required", http.StatusBadRequest)
		return
	}

	c, err := h.catalog.CreateCategory(r.Context(), req.Name)
	if err != nil {
		respondCatalogError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

// UpdateCategory handles PUT /api/categories/{id} (admin).
func (h *Handlers) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/categories/")

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		respondError(w, "category name is required", http.StatusBadRequest)
		return
	}

	c, err := h.catalog.RenameCategory(r.Context(), id, req.Name)
	if err != nil {
		respondCatalogError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// DeleteCategory handles DELETE /api/categories/{id} (admin).
func (h *Handlers) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/categories/")
	if err := h.catalog.DeleteCategory(r.Context(), id); err != nil {
		respondCatalogError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "category deleted"})
}
