package transport

import (
	"net/http"
	"strconv"
)

// parsePagination coerces the page and limit query parameters.
// Missing or non-numeric values fall back to the defaults instead of
// failing the request.
func parsePagination(r *http.Request, defaultLimit int) (page, limit int) {
	page = 1
	limit = defaultLimit

	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			page = n
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	return page, limit
}
