package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/example/grocer-backend/internal/domain/user"
)

// GetProfile handles GET /api/users/profile. The profile is created lazily
// from the identity claims on the first authenticated request.
func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	c := claims(r)
	u, err := h.users.EnsureProfile(r.Context(), user.Identity{
		ID:    c.UserID,
		Email: c.Email,
		Name:  c.Name,
		Role:  user.Role(c.Role),
	})
	if err != nil {
		respondUserError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, u)
}

// UpdateProfile handles PUT /api/users/profile.
func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	u, err := h.users.UpdateProfile(r.Context(), claims(r).UserID, req.Name, req.Phone)
	if err != nil {
		respondUserError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, u)
}

// AddAddress handles POST /api/users/addresses.
func (h *Handlers) AddAddress(w http.ResponseWriter, r *http.Request) {
	var in user.AddressInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(in.Address) == "" || strings.TrimSpace(in.City) == "" {
		respondError(w, "address and city are required", http.StatusBadRequest)
		return
	}

	addresses, err := h.users.AddAddress(r.Context(), claims(r).UserID, in)
	if err != nil {
		respondUserError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, addresses)
}

// UpdateAddress handles PUT /api/users/addresses/{id}.
func (h *Handlers) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	addressID := strings.TrimPrefix(r.URL.Path, "/api/users/addresses/")

	var in user.AddressInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	addresses, err := h.users.UpdateAddress(r.Context(), claims(r).UserID, addressID, in)
	if err != nil {
		respondUserError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, addresses)
}

// DeleteAddress handles DELETE /api/users/addresses/{id}.
func (h *Handlers) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	addressID := strings.TrimPrefix(r.URL.Path, "/api/users/addresses/")

	addresses, err := h.users.DeleteAddress(r.Context(), claims(r).UserID, addressID)
	if err != nil {
		respondUserError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, addresses)
}

// BcoinHistory handles GET /api/users/bcoins: the caller's ledger page plus
// their current balance.
func (h *Handlers) BcoinHistory(w http.ResponseWriter, r *http.Request) {
	page, limit, offset := parsePage(r, 20)

	history, err := h.bcoins.History(r.Context(), claims(r).UserID, limit, offset)
	if err != nil {
		respondUserError(w, err)
		return
	}
	respondPaged(w, history, page, limit, history.Total)
}

// ListUsers handles GET /api/users (admin).
func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, limit, offset := parsePage(r, 20)

	users, total, err := h.users.List(r.Context(), r.URL.Query().Get("search"), limit, offset)
	if err != nil {
		respondUserError(w, err)
		return
	}
	respondPaged(w, users, page, limit, total)
}

func respondUserError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, user.ErrUserNotFound), errors.Is(err, user.ErrAddressNotFound):
		respondError(w, err.Error(), http.StatusNotFound)
	default:
		log.Printf("[API] User operation failed: %v", err)
		respondError(w, "internal error", http.StatusInternalServerError)
	}
}
