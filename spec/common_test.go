package spec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetJrpcType(t *testing.T) {
	tests := []struct {
		in   string
		want JrpcType
	}{
		{in: `{"jsonrpc":"2.0","method":"greetings_batchcreate","params":[[]],"id":1}`, want: TypeRequest},
		{in: `{"jsonrpc":"2.0","method":"greetings_subscribe"}`, want: TypeNotification},
		{in: `{"jsonrpc":"2.0","result":{},"id":1}`, want: TypeResponse},
		{in: `{"jsonrpc":"2.0","error":{"code":-32601,"message":"x"},"id":1}`, want: TypeResponse},
		{in: `{"code":-32601,"message":"x"}`, want: TypeError},
		{in: `[{"jsonrpc":"2.0","method":"a_b","id":1}]`, want: TypeBatchRequest},
		{in: `[{"jsonrpc":"2.0","result":1,"id":1}]`, want: TypeBatchResponse},
		{in: `[]`, want: TypeNone},
		{in: `"text"`, want: TypeNone},
		{in: `{broken`, want: TypeNone},
	}
	for _, tt := range tests {
		_, got := GetJrpcType([]byte(tt.in))
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseRequest_Extensions(t *testing.T) {
	req := ParseRequest([]byte(`{
		"jsonrpc":"2.0","method":"greetings_batchcreate","id":"7",
		"params":[[{"message":"hi"}]],
		"headers":{"X-RestLi-Protocol-Version":"2.0.0"},
		"query":{"fields":"message","altkey":"slug"}
	}`))
	require.NotNil(t, req)
	assert.Equal(t, "greetings_batchcreate", req.Method)
	assert.Equal(t, "7", req.ID)
	assert.False(t, req.IsNotification())
	assert.Equal(t, "2.0.0", req.Headers[ProtocolVersionHeader])
	assert.Equal(t, map[string]string{"fields": "message", "altkey": "slug"}, req.Query)

	assert.Nil(t, ParseRequest([]byte(`{"jsonrpc":"2.0","method":"a_b"}`)))
}

func TestParse_Batch(t *testing.T) {
	obj, tp := Parse([]byte(`[{"jsonrpc":"2.0","method":"a_b","id":1},{"jsonrpc":"2.0","method":"a_c"}]`))
	require.Equal(t, TypeBatchRequest, tp)
	batch := obj.(BatchRequest)
	require.Len(t, batch, 2)
	assert.False(t, batch[0].IsNotification())
	assert.True(t, batch[1].IsNotification())
}
