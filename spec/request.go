package spec

const (
	JsonRpcVersion = "2.0"
)

type Request struct {

	// JSON-RPC protocol. MUST be exactly "2.0"
	Jsonrpc string `json:"jsonrpc"`

	// A String containing the name of the method to be invoked,
	// formatted as "<resource>_<method>" (e.g. "greetings_batchcreate").
	Method string `json:"method"`

	// A Structured value that holds the parameter values to be
	// used during the invocation of the method.
	//
	// Arrays are passed positionally, objects are decoded into the
	// single argument of the method.
	Params interface{} `json:"params,omitempty"`

	// An identifier established by the Client that MUST contain
	// a String, Number, or NULL value
	// (this implementation ignores NULL)
	//
	// The Server MUST reply with the same value in the Response object if included.
	ID interface{} `json:"id,omitempty"`

	// Transport headers forwarded with the call. This is an extension of
	// JSON-RPC used to carry the protocol version, projection and alternate
	// key selection over websocket connections.
	Headers map[string]string `json:"headers,omitempty"`

	// Query options of the call: "fields", "altkey", "projectionMode".
	Query map[string]string `json:"query,omitempty"`
}

// Checks if request is a notification
func (r *Request) IsNotification() bool {
	return r.ID == nil
}

// Returns new Request object with added JsonRpc version
func NewRequest(id interface{}, method string, params interface{}) Request {
	return Request{
		Jsonrpc: JsonRpcVersion,
		Method:  method,
		Params:  params,
		ID:      id,
	}
}

// Decodes byte slice to Request object and returns pointer to it.
// If the data was not compatible with an object this func will return nil
func ParseRequest(data []byte) *Request {
	return fromBytes[Request](data, TypeRequest)
}
