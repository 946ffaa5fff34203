package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"media-analysis-api/internal/domain"
)

// errorResponse is the uniform error body. Field is set for validation
// failures so clients can point at the offending input.
type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// listResponse wraps every paginated collection.
type listResponse struct {
	Items    interface{} `json:"items"`
	Total    int         `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	HasMore  bool        `json:"has_more"`
}

func newListResponse(items interface{}, count, total, page, pageSize int) listResponse {
	return listResponse{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		HasMore:  (page-1)*pageSize+count < total,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeFieldError(w http.ResponseWriter, msg, field string) {
	writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: msg, Field: field})
}

// writeDomainError maps domain sentinels onto the HTTP surface. Anything
// unknown becomes an opaque 500; the real cause is already logged upstream.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrNoPendingJobs):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrAlreadyDeleted):
		writeError(w, http.StatusConflict, "already deleted")
	case errors.Is(err, domain.ErrNotDeleted):
		writeError(w, http.StatusConflict, "not deleted")
	case errors.Is(err, domain.ErrInvalidArgument):
		writeError(w, http.StatusUnprocessableEntity, "invalid argument")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// pageParams reads page/page_size with sane bounds.
func pageParams(r *http.Request) (page, pageSize, offset int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ = strconv.Atoi(r.URL.Query().Get("page_size"))
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize, (page - 1) * pageSize
}

func limitParam(r *http.Request, def, max int) int {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	return limit
}

func offsetParam(r *http.Request) int {
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}
	return offset
}
