package shared

import "fmt"

// DomainError represents a business rule violation
type DomainError struct {
	Code    string
	Message string
}

func (e DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) DomainError {
	return DomainError{
		Code:    code,
		Message: message,
	}
}

// NewDomainErrorf creates a new domain error with a formatted message
func NewDomainErrorf(code, format string, args ...interface{}) DomainError {
	return DomainError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Common domain error codes
const (
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeInvalidState        = "INVALID_STATE"
	ErrCodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	ErrCodeInsufficientBalance = "INSUFFICIENT_BALANCE"
	ErrCodeCurrencyMismatch    = "CURRENCY_MISMATCH"
	ErrCodeMissingReference    = "MISSING_REFERENCE"
	ErrCodeNoInvoices          = "NO_INVOICES"
	ErrCodeUnknownCurrency     = "UNKNOWN_CURRENCY"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeInternal            = "INTERNAL_ERROR"
)

// Common domain errors
var (
	ErrNotFound            = NewDomainError(ErrCodeNotFound, "resource not found")
	ErrConcurrencyConflict = NewDomainError(ErrCodeConcurrencyConflict, "resource was modified by another operation")
)

// NewNotFoundError creates a not found error for a named resource
func NewNotFoundError(resource string) DomainError {
	return NewDomainErrorf(ErrCodeNotFound, "%s not found", resource)
}

// NewValidationError creates a validation error
func NewValidationError(message string) DomainError {
	return NewDomainError(ErrCodeValidation, message)
}

// NewInvalidStateError creates an invalid state transition error
func NewInvalidStateError(message string) DomainError {
	return NewDomainError(ErrCodeInvalidState, message)
}
