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
	ErrNotFound          = NewDomainError("NOT_FOUND", "Resource not found")
	ErrInvalidInput      = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrValidationFailed  = NewDomainError("VALIDATION_FAILED", "Request validation failed")
	ErrRemoteUnavailable = NewDomainError("REMOTE_UNAVAILABLE", "Remote client service is unavailable")
	ErrRemoteRejected    = NewDomainError("REMOTE_REJECTED", "Remote client service rejected the request")
)
