// Package errors provides custom error types for the Shked API.
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

// Is matches any AppError carrying the same code, so wrapped copies of a
// sentinel still satisfy errors.Is(err, ErrX).
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

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
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}

	ErrInvalidWebhookSecret = &AppError{Code: "INVALID_WEBHOOK_SECRET", Message: "Invalid or missing webhook secret", StatusCode: http.StatusUnauthorized}
	ErrWebhookNotConfigured = &AppError{Code: "WEBHOOK_NOT_CONFIGURED", Message: "Webhook secret is not configured", StatusCode: http.StatusServiceUnavailable}
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
	ErrGroupNotFound  = &AppError{Code: "GROUP_NOT_FOUND", Message: "Group not found", StatusCode: http.StatusNotFound}
)

// Link token errors.
var (
	ErrTokenNotFound    = &AppError{Code: "TOKEN_NOT_FOUND", Message: "Link token not found", StatusCode: http.StatusNotFound}
	ErrTokenExpired     = &AppError{Code: "TOKEN_EXPIRED", Message: "Link token has expired", StatusCode: http.StatusGone}
	ErrTokenAlreadyUsed = &AppError{Code: "TOKEN_ALREADY_USED", Message: "Link token was already used", StatusCode: http.StatusConflict}
)

// Messenger account errors.
var (
	ErrAccountAlreadyLinked    = &AppError{Code: "ACCOUNT_ALREADY_LINKED", Message: "Messenger account is already linked", StatusCode: http.StatusConflict}
	ErrWebAccountAlreadyLinked = &AppError{Code: "WEB_ACCOUNT_ALREADY_LINKED", Message: "A messenger account of this platform is already linked", StatusCode: http.StatusConflict}
	ErrAccountNotSeen          = &AppError{Code: "ACCOUNT_NOT_SEEN", Message: "Messenger account has not contacted the bot yet", StatusCode: http.StatusNotFound}
	ErrNotLinked               = &AppError{Code: "NOT_LINKED", Message: "Messenger account is not linked", StatusCode: http.StatusNotFound}
	ErrUnsupportedPlatform     = &AppError{Code: "UNSUPPORTED_PLATFORM", Message: "Unsupported messenger platform", StatusCode: http.StatusBadRequest}
)

// Messenger transport errors.
var (
	ErrDeliveryFailed   = &AppError{Code: "DELIVERY_FAILED", Message: "Message delivery failed", StatusCode: http.StatusBadGateway}
	ErrMalformedWebhook = &AppError{Code: "MALFORMED_WEBHOOK", Message: "Malformed webhook payload", StatusCode: http.StatusInternalServerError}
)
