// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrInvalidInput  = errors.New("invalid input")
	ErrDuplicateKey  = errors.New("duplicate key")
	ErrTokenExpired  = errors.New("token expired")
	ErrTokenInvalid  = errors.New("token invalid")
	ErrAccountLocked = errors.New("account disabled")

	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrProductUnavailable = errors.New("product unavailable")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInvalidStatus      = errors.New("invalid order status")
	ErrRateLimited        = errors.New("rate limited")

	ErrProductNotFound = fmt.Errorf("product %w", ErrNotFound)
)

type AppError struct {
	Err        error
	Message    string
	StatusCode int
	Code       string
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(err error, message string, statusCode int, code string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		StatusCode: statusCode,
		Code:       code,
	}
}

func NotFoundError(resource string) *AppError {
	return NewAppError(
		ErrNotFound,
		fmt.Sprintf("%s not found", resource),
		http.StatusNotFound,
		"NOT_FOUND",
	)
}

func UnauthorizedError(message string) *AppError {
	if message == "" {
		message = "authentication required"
	}
	return NewAppError(ErrUnauthorized, message, http.StatusUnauthorized, "UNAUTHORIZED")
}

func ForbiddenError(message string) *AppError {
	if message == "" {
		message = "access denied"
	}
	return NewAppError(ErrForbidden, message, http.StatusForbidden, "FORBIDDEN")
}

func ValidationError(message string) *AppError {
	return NewAppError(ErrInvalidInput, message, http.StatusBadRequest, "VALIDATION_ERROR")
}

func DuplicateError(field string) *AppError {
	return NewAppError(
		ErrDuplicateKey,
		fmt.Sprintf("%s already exists", field),
		http.StatusConflict,
		"CONFLICT",
	)
}

func TokenExpiredError() *AppError {
	return NewAppError(
		ErrTokenExpired,
		"session expired, please sign in again",
		http.StatusUnauthorized,
		"TOKEN_EXPIRED",
	)
}

func TokenInvalidError() *AppError {
	return NewAppError(
		ErrTokenInvalid,
		"invalid token",
		http.StatusUnauthorized,
		"INVALID_TOKEN",
	)
}

func RateLimitedError(retryAfterSecs int) *AppError {
	return NewAppError(
		ErrRateLimited,
		fmt.Sprintf("rate limit exceeded, retry after %d seconds", retryAfterSecs),
		http.StatusTooManyRequests,
		"RATE_LIMITED",
	)
}

// StockError reports a quantity that exceeds the live stock of a product.
type StockError struct {
	ProductID string
	Name      string
	Available int
	Requested int
}

func (e *StockError) Error() string {
	return fmt.Sprintf(
		"only %d of %q available, requested %d",
		e.Available,
		e.Name,
		e.Requested,
	)
}

func (e *StockError) Unwrap() error {
	return ErrInsufficientStock
}

// ToAppError translates sentinel errors raised by services into the tagged
// error the HTTP boundary writes. Anything unrecognised maps to a 500.
func ToAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var stockErr *StockError
	if errors.As(err, &stockErr) {
		return NewAppError(err, stockErr.Error(), http.StatusConflict, "INSUFFICIENT_STOCK")
	}

	switch {
	case errors.Is(err, ErrProductNotFound):
		return NewAppError(err, "product not found", http.StatusNotFound, "PRODUCT_NOT_FOUND")
	case errors.Is(err, ErrNotFound):
		return NewAppError(err, "resource not found", http.StatusNotFound, "NOT_FOUND")
	case errors.Is(err, ErrInvalidInput):
		return NewAppError(err, "invalid input", http.StatusBadRequest, "VALIDATION_ERROR")
	case errors.Is(err, ErrDuplicateKey):
		return NewAppError(err, "resource already exists", http.StatusConflict, "CONFLICT")
	case errors.Is(err, ErrTokenExpired):
		return TokenExpiredError()
	case errors.Is(err, ErrTokenInvalid):
		return TokenInvalidError()
	case errors.Is(err, ErrAccountLocked):
		return NewAppError(err, "account is disabled", http.StatusUnauthorized, "USER_DISABLED")
	case errors.Is(err, ErrUnauthorized):
		return UnauthorizedError("")
	case errors.Is(err, ErrForbidden):
		return ForbiddenError("")
	case errors.Is(err, ErrInsufficientStock):
		return NewAppError(err, "insufficient stock", http.StatusConflict, "INSUFFICIENT_STOCK")
	case errors.Is(err, ErrProductUnavailable):
		return NewAppError(err, "product unavailable", http.StatusConflict, "PRODUCT_UNAVAILABLE")
	case errors.Is(err, ErrEmptyCart):
		return NewAppError(err, "cart is empty", http.StatusBadRequest, "EMPTY_CART")
	case errors.Is(err, ErrInvalidStatus):
		return NewAppError(err, "invalid order status", http.StatusBadRequest, "INVALID_STATUS")
	case errors.Is(err, ErrRateLimited):
		return NewAppError(err, "rate limit exceeded", http.StatusTooManyRequests, "RATE_LIMITED")
	}

	return NewAppError(err, "internal server error", http.StatusInternalServerError, "SERVER_ERROR")
}
