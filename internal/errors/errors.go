// Package errors provides custom error types for the papertrade API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrMissingToken       = &AppError{Code: "MISSING_TOKEN", Message: "Session token is required", StatusCode: http.StatusUnauthorized}
	ErrInvalidToken       = &AppError{Code: "INVALID_TOKEN", Message: "Invalid or expired session token", StatusCode: http.StatusUnauthorized}
	ErrUnknownSubject     = &AppError{Code: "UNKNOWN_SUBJECT", Message: "Session subject no longer exists", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Portfolio errors.
var (
	ErrPortfolioNotFound = &AppError{Code: "PORTFOLIO_NOT_FOUND", Message: "Portfolio not found", StatusCode: http.StatusNotFound}
	ErrNoHoldings        = &AppError{Code: "NO_HOLDINGS", Message: "Portfolio has no holdings", StatusCode: http.StatusNotFound}
)

// Market data errors.
var (
	ErrStockDataNotFound = &AppError{Code: "STOCK_DATA_NOT_FOUND", Message: "No price data for this symbol", StatusCode: http.StatusNotFound}
	ErrQuoteNotFound     = &AppError{Code: "QUOTE_NOT_FOUND", Message: "No price data for the requested date", StatusCode: http.StatusNotFound}
)

// Trade errors.
var (
	ErrStaleTrade           = &AppError{Code: "STALE_TRADE", Message: "Cannot trade on a date earlier than the portfolio clock", StatusCode: http.StatusBadRequest}
	ErrPriceOutOfRange      = &AppError{Code: "PRICE_OUT_OF_RANGE", Message: "Trade price is outside the day's open/close range", StatusCode: http.StatusBadRequest}
	ErrInsufficientFunds    = &AppError{Code: "INSUFFICIENT_FUNDS", Message: "Insufficient cash for this trade", StatusCode: http.StatusBadRequest}
	ErrInsufficientHoldings = &AppError{Code: "INSUFFICIENT_HOLDINGS", Message: "Insufficient holdings for this sale", StatusCode: http.StatusBadRequest}
	ErrInvalidTradeType     = &AppError{Code: "INVALID_TRADE_TYPE", Message: "Trade type must be BUY or SELL", StatusCode: http.StatusBadRequest}
	ErrTradeConflict        = &AppError{Code: "TRADE_CONFLICT", Message: "Portfolio was modified concurrently, retry the trade", StatusCode: http.StatusConflict}
)

// Analysis errors.
var (
	ErrInvalidDateRange = &AppError{Code: "INVALID_DATE_RANGE", Message: "No price data on the requested start or end date", StatusCode: http.StatusBadRequest}
	ErrZeroBaseValue    = &AppError{Code: "ZERO_BASE_VALUE", Message: "Portfolio has no value at the start date", StatusCode: http.StatusBadRequest}
)
