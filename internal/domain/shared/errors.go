package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
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
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("VALIDATION_ERROR", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrPreconditionFailed  = NewDomainError("PRECONDITION_FAILED", "Operation preconditions are not met")
	ErrProviderTimeout     = NewDomainError("PROVIDER_TIMEOUT", "External provider call exceeded its time budget")
	ErrProviderError       = NewDomainError("PROVIDER_ERROR", "External provider returned an error")
	ErrEmptyResult         = NewDomainError("EMPTY_RESULT", "External provider returned no items")
	ErrPersistence         = NewDomainError("PERSISTENCE_ERROR", "Store write failed")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
)

// NewValidationError creates a VALIDATION_ERROR with a specific message
func NewValidationError(message string) *DomainError {
	return NewDomainError("VALIDATION_ERROR", message)
}

// NewPreconditionError creates a PRECONDITION_FAILED with a specific message
func NewPreconditionError(message string) *DomainError {
	return NewDomainError("PRECONDITION_FAILED", message)
}

// IsCode reports whether err is a DomainError carrying the given code
func IsCode(err error, code string) bool {
	if err == nil {
		return false
	}
	de, ok := err.(*DomainError)
	return ok && de.Code == code
}
