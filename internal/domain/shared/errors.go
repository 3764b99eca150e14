package shared

// ErrorClass groups domain errors by how callers should react to them
type ErrorClass string

const (
	// ClassPrecondition is raised before any outbound call; never retried
	ClassPrecondition ErrorClass = "precondition"
	// ClassTransient may resolve on its own after a short wait
	ClassTransient ErrorClass = "transient"
	// ClassTerminal ends the operation; retrying will not help
	ClassTerminal ErrorClass = "terminal"
	// ClassUpstream carries an unrecognised backend failure verbatim
	ClassUpstream ErrorClass = "upstream"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string     `json:"code"`
	Message string     `json:"message"`
	Class   ErrorClass `json:"class,omitempty"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target carries the same code, so that errors.Is works
// against sentinels even when the message has been localized
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithMessage returns a copy of the error with a different message
func (e *DomainError) WithMessage(message string) *DomainError {
	return &DomainError{Code: e.Code, Message: message, Class: e.Class}
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Class:   ClassPrecondition,
	}
}

// NewClassifiedError creates a domain error with an explicit class
func NewClassifiedError(class ErrorClass, code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Class:   class,
	}
}

// Common domain errors
var (
	ErrNotFound      = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput  = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrUnauthorized  = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden     = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState  = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)
