package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthenticated means no identity could be resolved for the caller
	ErrUnauthenticated = errors.New("Unauthorized")
	// ErrForbidden means the identity lacks the role an operation requires
	ErrForbidden = errors.New("Forbidden")
	// ErrNotFound is returned for unknown tools and invocations
	ErrNotFound = errors.New("not found")
)

// ValidationError reports malformed input. It is never retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError builds a ValidationError for field
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// QueryExecutionError carries a store failure that survived the fallback chain
type QueryExecutionError struct {
	Message string
	Status  int
	Err     error
}

func (e *QueryExecutionError) Error() string {
	return e.Message
}

func (e *QueryExecutionError) Unwrap() error {
	return e.Err
}

// NewQueryExecutionError wraps a store error with status 500
func NewQueryExecutionError(err error) *QueryExecutionError {
	return &QueryExecutionError{Message: err.Error(), Status: http.StatusInternalServerError, Err: err}
}

// ToolExecutionError is a handler failure reported back to the tool caller
// with the handler's message kept verbatim.
type ToolExecutionError struct {
	Tool    string
	Message string
	Err     error
}

func (e *ToolExecutionError) Error() string {
	return e.Message
}

func (e *ToolExecutionError) Unwrap() error {
	return e.Err
}

// Forbidden returns ErrForbidden annotated with the missing role
func Forbidden(role Role) error {
	return fmt.Errorf("%w: %s role required", ErrForbidden, role)
}

// HTTPStatus maps an error from any layer to a response status
func HTTPStatus(err error) int {
	var (
		verr *ValidationError
		qerr *QueryExecutionError
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &qerr) && qerr.Status != 0:
		return qerr.Status
	default:
		return http.StatusInternalServerError
	}
}
