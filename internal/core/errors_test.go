// AngelaMos | 2026
// errors_test.go

package core

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToAppError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", fmt.Errorf("get order: %w", ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"product not found", fmt.Errorf("add: %w", ErrProductNotFound), http.StatusNotFound, "PRODUCT_NOT_FOUND"},
		{"validation", ValidationError("city is required"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"conflict", fmt.Errorf("create: %w", ErrDuplicateKey), http.StatusConflict, "CONFLICT"},
		{"forbidden", fmt.Errorf("get order: %w", ErrForbidden), http.StatusForbidden, "FORBIDDEN"},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"expired", fmt.Errorf("verify: %w", ErrTokenExpired), http.StatusUnauthorized, "TOKEN_EXPIRED"},
		{"stock", &StockError{Name: "Lamp", Available: 1, Requested: 2}, http.StatusConflict, "INSUFFICIENT_STOCK"},
		{"unavailable", ErrProductUnavailable, http.StatusConflict, "PRODUCT_UNAVAILABLE"},
		{"empty cart", fmt.Errorf("create order: %w", ErrEmptyCart), http.StatusBadRequest, "EMPTY_CART"},
		{"status", ErrInvalidStatus, http.StatusBadRequest, "INVALID_STATUS"},
		{"disabled", fmt.Errorf("login: %w", ErrAccountLocked), http.StatusUnauthorized, "USER_DISABLED"},
		{"rate limited", RateLimitedError(3), http.StatusTooManyRequests, "RATE_LIMITED"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := ToAppError(tt.err)
			assert.Equal(t, tt.status, appErr.StatusCode)
			assert.Equal(t, tt.code, appErr.Code)
		})
	}
}

func TestStockErrorIsInsufficientStock(t *testing.T) {
	err := fmt.Errorf("create order: %w", &StockError{Name: "Lamp", Available: 0, Requested: 1})

	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Contains(t, ToAppError(err).Message, "Lamp")
}

func TestProductNotFoundIsNotFound(t *testing.T) {
	assert.ErrorIs(t, ErrProductNotFound, ErrNotFound)
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 5, 12)
	assert.Equal(t, 3, p.Pages)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrev)

	p = NewPagination(3, 5, 12)
	assert.False(t, p.HasNext)

	p = NewPagination(1, 12, 0)
	assert.Equal(t, 0, p.Pages)
	assert.False(t, p.HasNext)
	assert.False(t, p.HasPrev)
}
