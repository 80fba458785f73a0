package shared

import "fmt"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError with the same code, so that
// sentinel errors below match wrapped or reconstructed instances.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound          = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists     = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput      = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidState      = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrValidationFailed  = NewDomainError("VALIDATION_FAILED", "Request validation failed")
	ErrEmptySelection    = NewDomainError("EMPTY_SELECTION", "Select at least one line item")
	ErrNoEligibleItems   = NewDomainError("NO_ELIGIBLE_ITEMS", "No undelivered items to return")
	ErrInsufficientStock = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
)

// NewInsufficientStockError builds an INSUFFICIENT_STOCK error naming the product.
func NewInsufficientStockError(productName string) *DomainError {
	return NewDomainError("INSUFFICIENT_STOCK", fmt.Sprintf("Insufficient stock for product %s", productName))
}

// NewValidationError builds a VALIDATION_FAILED error with a specific message.
func NewValidationError(message string) *DomainError {
	return NewDomainError("VALIDATION_FAILED", message)
}
