package resource

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/kroksys/restbatch/spec"
)

var (
	// ErrNullResults signals a batch result whose result list is nil.
	ErrNullResults = errors.New("null result list")
	// ErrNullResultElement signals a nil element inside a batch result list.
	ErrNullResultElement = errors.New("null result element")
)

// ServiceError is an error carrying the HTTP status a resource method wants
// reported. Resource methods return it for whole calls, or attach it to a
// single item of a batch.
type ServiceError struct {
	Status           int
	Message          string
	Code             string
	ServiceErrorCode int
	Details          spec.DataMap
	Cause            error
}

// NewServiceError creates a ServiceError with the given status and message.
func NewServiceError(status int, message string) *ServiceError {
	return &ServiceError{Status: status, Message: message}
}

// WrapServiceError creates a ServiceError caused by err.
func WrapServiceError(status int, message string, err error) *ServiceError {
	return &ServiceError{Status: status, Message: message, Cause: err}
}

// Error implements the error interface
func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%d %s: %v", e.Status, e.Message, e.Cause)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Message)
}

// Unwrap returns the underlying error
func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// WithCode sets the machine readable error code.
func (e *ServiceError) WithCode(code string) *ServiceError {
	e.Code = code
	return e
}

// WithServiceErrorCode sets the numeric application error code.
func (e *ServiceError) WithServiceErrorCode(code int) *ServiceError {
	e.ServiceErrorCode = code
	return e
}

// WithDetails attaches structured details.
func (e *ServiceError) WithDetails(details spec.DataMap) *ServiceError {
	e.Details = details
	return e
}

// AsServiceError returns err as a ServiceError. Errors that are not service
// errors become 500s.
func AsServiceError(err error) *ServiceError {
	var se *ServiceError
	if errors.As(err, &se) {
		return se
	}
	return WrapServiceError(http.StatusInternalServerError, "Error in application code", err)
}
