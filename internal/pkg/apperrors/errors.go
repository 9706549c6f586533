package apperrors

import "errors"

// Common errors
var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternal         = errors.New("internal error")

	// Authentication and authorization errors
	ErrUnauthorized     = errors.New("unauthorized")
	ErrPermissionDenied = errors.New("permission denied")
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenInvalid     = errors.New("invalid token")
)

// CustomError carries the message shown to API clients next to the sentinel
// used for status mapping.
type CustomError struct {
	Err     error
	Message string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// NewValidationError reports a missing or malformed field or identifier.
func NewValidationError(message string) error {
	return NewCustomError(ErrValidationFailed, message)
}

// NewConflictError reports a uniqueness violation.
func NewConflictError(message string) error {
	return NewCustomError(ErrConflict, message)
}

// NewResourceNotFoundError reports a missing record.
func NewResourceNotFoundError(message string) error {
	return NewCustomError(ErrResourceNotFound, message)
}

// NewInternalError hides an unexpected failure behind a generic message.
// The cause is kept for logging.
func NewInternalError(cause error, message string) error {
	return &CustomError{Err: errors.Join(ErrInternal, cause), Message: message}
}

// NewUnauthorizedError reports a missing or invalid credential.
func NewUnauthorizedError(message string) error {
	return NewCustomError(ErrUnauthorized, message)
}

// NewForbiddenError reports an authenticated caller without the required role.
func NewForbiddenError(message string) error {
	return NewCustomError(ErrPermissionDenied, message)
}

// Message returns the client-facing message of err, or fallback when err
// carries none.
func Message(err error, fallback string) string {
	var ce *CustomError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}
	return fallback
}

// Is returns whether err matches target or any of errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}
