package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hongminglow/club-finder/internal/catalog"
	"github.com/hongminglow/club-finder/internal/gateway"
	"github.com/hongminglow/club-finder/internal/storage"
)

func TestFiltersFromQuery(t *testing.T) {
	q := url.Values{
		"city":     {" NY "},
		"sport":    {"tennis, squash", "golf"},
		"facility": {"", "parking"},
		"price":    {"$$"},
		"q":        {"ace"},
	}
	assert.Equal(t, catalog.Filters{
		City:        "NY",
		Sports:      []string{"tennis", "squash", "golf"},
		PriceRange:  "$$",
		Facilities:  []string{"parking"},
		SearchQuery: "ace",
	}, filtersFromQuery(q))

	assert.True(t, filtersFromQuery(url.Values{}).IsZero())
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: bad date", gateway.ErrValidation), http.StatusBadRequest},
		{gateway.ErrInvalidCredentials, http.StatusUnauthorized},
		{gateway.ErrNoSession, http.StatusUnauthorized},
		{fmt.Errorf("approve: %w", gateway.ErrForbidden), http.StatusForbidden},
		{storage.ErrNotFound, http.StatusNotFound},
		{catalog.ErrClubNotFound, http.StatusNotFound},
		{gateway.ErrUserExists, http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}
