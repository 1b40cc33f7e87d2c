package errors

import (
	"errors"
	"net/http"
)

type AppError struct {
	Code       string
	Message    string
	Detail     string
	StatusCode int
	Err        error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

func (e *AppError) WithDetail(detail string) *AppError {
	e.Detail = detail

	return e
}

func (e *AppError) WithError(err error) *AppError {
	e.Err = err

	return e
}

const (
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeUnauthenticated = "UNAUTHENTICATED"
	ErrCodeNetwork         = "NETWORK_ERROR"
	ErrCodeUpstream        = "UPSTREAM_ERROR"
	ErrCodeEmptyCart       = "EMPTY_CART"
	ErrCodeCartItemBusy    = "CART_ITEM_BUSY"
	ErrCodeCheckoutBusy    = "CHECKOUT_BUSY"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

func ValidationError(message string) *AppError {
	return NewAppError(ErrCodeValidation, message, http.StatusBadRequest)
}

func BadRequestError(message string) *AppError {
	return NewAppError(ErrCodeBadRequest, message, http.StatusBadRequest)
}

func NotFoundError(message string) *AppError {
	return NewAppError(ErrCodeNotFound, message, http.StatusNotFound)
}

func UnauthenticatedError(message string) *AppError {
	return NewAppError(ErrCodeUnauthenticated, message, http.StatusUnauthorized)
}

func NetworkError(message string) *AppError {
	return NewAppError(ErrCodeNetwork, message, http.StatusBadGateway)
}

// UpstreamError carries the bookstore API's own error message and status
// through to the presentation layer; the server's message is preferred over
// a generic one.
func UpstreamError(message string, statusCode int) *AppError {
	return NewAppError(ErrCodeUpstream, message, statusCode)
}

func EmptyCartError() *AppError {
	return NewAppError(ErrCodeEmptyCart, "Your cart is empty", http.StatusBadRequest)
}

func CartItemBusyError(isbn string) *AppError {
	return NewAppError(ErrCodeCartItemBusy, "Another update for this item is still in progress", http.StatusConflict).WithDetail(isbn)
}

func CheckoutBusyError() *AppError {
	return NewAppError(ErrCodeCheckoutBusy, "An order submission is already in progress", http.StatusConflict)
}

func InternalError(message string) *AppError {
	return NewAppError(ErrCodeInternal, message, http.StatusInternalServerError)
}

func IsAppError(err error) (*AppError, bool) {
	var appError *AppError

	if errors.As(err, &appError) {
		return appError, true
	}

	return nil, false
}

// IsCode reports whether err is an AppError carrying the given code.
func IsCode(err error, code string) bool {
	appErr, ok := IsAppError(err)

	return ok && appErr.Code == code
}
