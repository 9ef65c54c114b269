package utils

import (
	"net/http/httptest"
	"testing"
)

func TestGetPaginationParams(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "/transactions", 1, 20},
		{"explicit", "/transactions?page=3&limit=50", 3, 50},
		{"capped", "/transactions?limit=500", 1, 100},
		{"garbage", "/transactions?page=abc&limit=-2", 1, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)
			page, limit := GetPaginationParams(r)
			if page != tt.wantPage || limit != tt.wantLimit {
				t.Errorf("got page=%d limit=%d, want page=%d limit=%d", page, limit, tt.wantPage, tt.wantLimit)
			}
		})
	}
}

func TestAddSorting(t *testing.T) {
	base := "SELECT * FROM transactions WHERE user_id = ?"

	r := httptest.NewRequest("GET", "/transactions?sortBy=amount&sortOrder=desc", nil)
	got := AddSorting(r, base, "date", "amount")
	if got != base+" ORDER BY amount DESC" {
		t.Errorf("got %q", got)
	}

	// columns outside the whitelist never reach the query
	r = httptest.NewRequest("GET", "/transactions?sortBy=password", nil)
	if got := AddSorting(r, base, "date", "amount"); got != base {
		t.Errorf("unlisted column should be ignored, got %q", got)
	}

	r = httptest.NewRequest("GET", "/transactions", nil)
	if got := AddSorting(r, base, "date", "amount"); got != base {
		t.Errorf("no sortBy should leave the query alone, got %q", got)
	}
}
