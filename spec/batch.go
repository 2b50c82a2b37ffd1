package spec

// If the batch rpc call itself fails to be recognized as an
// valid JSON or as an Array with at least one value,
// the response from the Server MUST be a single Response object.
//
// If there are no Response objects contained within the Response
// array as it is to be sent to the client, the server
// MUST NOT return an empty Array and should return nothing at all.
type BatchRequest []Request

// BatchResponse holds one Response per non-notification Request of a BatchRequest.
type BatchResponse []Response

// Decodes byte slice to BatchRequest object and returns pointer to it.
func ParseBatchRequest(data []byte) *BatchRequest {
	return fromBytes[BatchRequest](data, TypeBatchRequest)
}

// Decodes byte slice to BatchResponse object and returns pointer to it.
func ParseBatchResponse(data []byte) *BatchResponse {
	return fromBytes[BatchResponse](data, TypeBatchResponse)
}
