package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Fatal extraction errors. Any of these aborts the whole batch: a manifest
// batch ships as a unit, so there is no partial output document.
var (
	ErrMissingField       = errors.New("required field not found in page text")
	ErrInvalidCount       = errors.New("item count is not a positive integer")
	ErrFieldCountMismatch = errors.New("item field match counts disagree")
	ErrEmptyOrder         = errors.New("order has no items")
)

// Recoverable conditions. Processing continues; the condition is surfaced to
// the caller as a warning.
var (
	ErrAssetNotFound = errors.New("thumbnail asset not found")
	ErrCatalogMiss   = errors.New("SKU not present in catalog")
)

// Common application errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// PageError ties a fatal extraction or composition error to the page it
// occurred on. Page indices are zero-based input positions.
type PageError struct {
	Page int
	Err  error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("page %d: %v", e.Page+1, e.Err)
}

func (e *PageError) Unwrap() error {
	return e.Err
}

// IsFatal reports whether err belongs to the fatal-per-batch taxonomy.
func IsFatal(err error) bool {
	return errors.Is(err, ErrMissingField) ||
		errors.Is(err, ErrInvalidCount) ||
		errors.Is(err, ErrFieldCountMismatch) ||
		errors.Is(err, ErrEmptyOrder)
}
