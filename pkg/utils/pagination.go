package utils

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// GetPaginationParams reads page and limit query params, defaulting to
// page 1 with 20 rows and capping limit at 100.
func GetPaginationParams(r *http.Request) (int, int) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	return page, limit
}

// AddSorting appends an ORDER BY clause for whitelisted columns from the
// sortBy/sortOrder query params. Columns outside the whitelist are ignored.
func AddSorting(r *http.Request, query string, allowed ...string) string {
	sortBy := r.URL.Query().Get("sortBy")
	if sortBy == "" {
		return query
	}

	ok := false
	for _, col := range allowed {
		if sortBy == col {
			ok = true
			break
		}
	}
	if !ok {
		return query
	}

	order := "ASC"
	if strings.EqualFold(r.URL.Query().Get("sortOrder"), "desc") {
		order = "DESC"
	}

	return fmt.Sprintf("%s ORDER BY %s %s", query, sortBy, order)
}
