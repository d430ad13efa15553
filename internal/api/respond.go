package api

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// pagination mirrors the envelope the mobile client paginates with.
type pagination struct {
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
	TotalItems  int `json:"total_items"`
}

type pagedResponse struct {
	Data       any        `json:"data"`
	Pagination pagination `json:"pagination"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, message string, status int) {
	respondJSON(w, status, map[string]string{"error": message})
}

func respondPaged(w http.ResponseWriter, data any, page, limit, total int) {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	respondJSON(w, http.StatusOK, pagedResponse{
		Data: data,
		Pagination: pagination{
			CurrentPage: page,
			TotalPages:  totalPages,
			TotalItems:  total,
		},
	})
}

// parsePage reads page/limit query params with sane defaults and caps.
func parsePage(r *http.Request, defaultLimit int) (page, limit, offset int) {
	page = 1
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}
	limit = defaultLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit, (page - 1) * limit
}
