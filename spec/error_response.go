package spec

// ErrorResponse is the structured error body sent to clients, both as a
// whole response and inside the error field of batch items.
type ErrorResponse struct {
	Status           int     `json:"status" msgpack:"status"`
	Message          string  `json:"message,omitempty" msgpack:"message,omitempty"`
	Code             string  `json:"code,omitempty" msgpack:"code,omitempty"`
	ServiceErrorCode int     `json:"serviceErrorCode,omitempty" msgpack:"serviceErrorCode,omitempty"`
	ExceptionClass   string  `json:"exceptionClass,omitempty" msgpack:"exceptionClass,omitempty"`
	ErrorDetails     DataMap `json:"errorDetails,omitempty" msgpack:"errorDetails,omitempty"`
}
