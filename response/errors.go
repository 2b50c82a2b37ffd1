package response

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/kroksys/restbatch/resource"
	"github.com/kroksys/restbatch/spec"
)

// ErrorFormat selects which fields of a service error reach the client.
type ErrorFormat int

const (
	FormatFull ErrorFormat = iota
	FormatMessageAndServiceCode
	FormatMessageOnly
	FormatMinimal
)

// ParseErrorFormat parses the config names of the error formats.
func ParseErrorFormat(s string) (ErrorFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "full":
		return FormatFull, nil
	case "message_and_servicecode":
		return FormatMessageAndServiceCode, nil
	case "message_only":
		return FormatMessageOnly, nil
	case "minimal":
		return FormatMinimal, nil
	}
	return FormatFull, fmt.Errorf("unknown error format %q", s)
}

// ErrorResponseBuilder renders service errors into error bodies. It is
// immutable and shared by all calls.
type ErrorResponseBuilder struct {
	format ErrorFormat
}

// NewErrorResponseBuilder creates a renderer using format.
func NewErrorResponseBuilder(format ErrorFormat) *ErrorResponseBuilder {
	return &ErrorResponseBuilder{format: format}
}

// Render maps err to its status code and error body.
func (b *ErrorResponseBuilder) Render(err *resource.ServiceError) (int, *spec.ErrorResponse) {
	status := err.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	body := &spec.ErrorResponse{Status: status}
	switch b.format {
	case FormatMinimal:
		return status, body
	case FormatMessageOnly:
		body.Message = err.Message
	case FormatMessageAndServiceCode:
		body.Message = err.Message
		body.Code = err.Code
		body.ServiceErrorCode = err.ServiceErrorCode
	default:
		body.Message = err.Message
		body.Code = err.Code
		body.ServiceErrorCode = err.ServiceErrorCode
		body.ErrorDetails = err.Details
		if err.Cause != nil {
			body.ExceptionClass = fmt.Sprintf("%T", err.Cause)
		}
	}
	return status, body
}

// BuildErrorResponse renders err as a whole response.
func (b *ErrorResponseBuilder) BuildErrorResponse(err *resource.ServiceError, headers map[string]string, cookies []*http.Cookie) *PartialResponse {
	status, body := b.Render(err)
	return NewPartialResponse(status, headers, cookies, body)
}
