package spec

type Notification struct {
	// JSON-RPC protocol. MUST be exactly "2.0"
	Jsonrpc string `json:"jsonrpc"`

	// A String containing the name of the method to be invoked, or for
	// server initiated notifications the name of the event ("greetings_created").
	Method string `json:"method"`

	// A Structured value (array or object). This member MAY be omitted.
	Params interface{} `json:"params,omitempty"`
}

// Returns new notification object with JsonRpc version attached
func NewNotification(method string, params interface{}) Notification {
	return Notification{
		Jsonrpc: JsonRpcVersion,
		Method:  method,
		Params:  params,
	}
}

// Decodes byte slice to Notification object and returns pointer to it.
// If the data was not compatible with an object this func will return nil
func ParseNotification(data []byte) *Notification {
	return fromBytes[Notification](data, TypeNotification)
}
