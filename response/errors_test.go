package response

import (
	"errors"
	"net/http"
	"testing"

	"github.com/kroksys/restbatch/resource"
	"github.com/kroksys/restbatch/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseErrorFormat(t *testing.T) {
	tests := []struct {
		in   string
		want ErrorFormat
		err  bool
	}{
		{in: "", want: FormatFull},
		{in: "full", want: FormatFull},
		{in: "MESSAGE_AND_SERVICECODE", want: FormatMessageAndServiceCode},
		{in: " message_only ", want: FormatMessageOnly},
		{in: "minimal", want: FormatMinimal},
		{in: "verbose", err: true},
	}
	for _, tt := range tests {
		got, err := ParseErrorFormat(tt.in)
		if tt.err {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestErrorResponseBuilder_Render(t *testing.T) {
	cause := errors.New("db down")
	se := resource.WrapServiceError(http.StatusServiceUnavailable, "try later", cause).
		WithCode("UNAVAILABLE").
		WithServiceErrorCode(42).
		WithDetails(spec.DataMap{"retry": 3})

	tests := []struct {
		format ErrorFormat
		want   *spec.ErrorResponse
	}{
		{format: FormatFull, want: &spec.ErrorResponse{
			Status:           503,
			Message:          "try later",
			Code:             "UNAVAILABLE",
			ServiceErrorCode: 42,
			ExceptionClass:   "*errors.errorString",
			ErrorDetails:     spec.DataMap{"retry": 3},
		}},
		{format: FormatMessageAndServiceCode, want: &spec.ErrorResponse{
			Status:           503,
			Message:          "try later",
			Code:             "UNAVAILABLE",
			ServiceErrorCode: 42,
		}},
		{format: FormatMessageOnly, want: &spec.ErrorResponse{Status: 503, Message: "try later"}},
		{format: FormatMinimal, want: &spec.ErrorResponse{Status: 503}},
	}
	for _, tt := range tests {
		status, body := NewErrorResponseBuilder(tt.format).Render(se)
		assert.Equal(t, http.StatusServiceUnavailable, status)
		assert.Equal(t, tt.want, body)
	}
}

func TestErrorResponseBuilder_ZeroStatus(t *testing.T) {
	status, body := NewErrorResponseBuilder(FormatFull).Render(&resource.ServiceError{Message: "oops"})
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, http.StatusInternalServerError, body.Status)
	assert.Empty(t, body.ExceptionClass)
}

func TestBuildErrorResponse(t *testing.T) {
	headers := map[string]string{spec.ProtocolVersionHeader: "2.0.0"}
	cookies := []*http.Cookie{{Name: "a", Value: "b"}}
	resp := NewErrorResponseBuilder(FormatMessageOnly).
		BuildErrorResponse(resource.NewServiceError(http.StatusBadRequest, "bad"), headers, cookies)

	assert.Equal(t, http.StatusBadRequest, resp.Status())
	assert.Equal(t, headers, resp.Headers())
	assert.Equal(t, cookies, resp.Cookies())
	assert.Equal(t, &spec.ErrorResponse{Status: 400, Message: "bad"}, resp.Entity())
}
