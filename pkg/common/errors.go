package common

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is a typed application error carrying the HTTP status the
// outer layer should map it to.
type AppError struct {
	Status  int
	Message string
	Err     error
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

// NewBadRequestError marks a validation failure in the caller's input.
func NewBadRequestError(message string, err error) *AppError {
	return &AppError{Status: http.StatusBadRequest, Message: message, Err: err}
}

// NewNotFoundError marks a missing entity.
func NewNotFoundError(message string, err error) *AppError {
	return &AppError{Status: http.StatusNotFound, Message: message, Err: err}
}

// NewConflictError marks a business-rule conflict the user can resolve
// by choosing differently.
func NewConflictError(message string, err error) *AppError {
	return &AppError{Status: http.StatusConflict, Message: message, Err: err}
}

// NewPaymentRequiredError marks a settlement failure.
func NewPaymentRequiredError(message string, err error) *AppError {
	return &AppError{Status: http.StatusPaymentRequired, Message: message, Err: err}
}

// NewInternalError marks an unexpected failure.
func NewInternalError(message string, err error) *AppError {
	return &AppError{Status: http.StatusInternalServerError, Message: message, Err: err}
}

// StatusOf maps any error to an HTTP status, defaulting to 500.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}
