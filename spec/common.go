package spec

import (
	"bytes"
	"encoding/json"
)

// JrpcType represents all JsonRpc specification types
type JrpcType int

const (
	TypeNone JrpcType = iota
	TypeBatchRequest
	TypeBatchResponse
	TypeError
	TypeNotification
	TypeRequest
	TypeResponse
)

func (tp JrpcType) String() string {
	switch tp {
	case TypeBatchRequest:
		return "TypeBatchRequest"
	case TypeBatchResponse:
		return "TypeBatchResponse"
	case TypeError:
		return "TypeError"
	case TypeNotification:
		return "TypeNotification"
	case TypeRequest:
		return "TypeRequest"
	case TypeResponse:
		return "TypeResponse"
	}
	return "TypeNone"
}

// Converts byte slice to JsonRpc and returns its Object and Type.
// [Request, Response, Notification, Error, BatchRequest, BatchResponse, None]
func GetJrpcType(data []byte) (interface{}, JrpcType) {
	switch GetJsonType(data) {
	case TypeJsonArray:
		array := []map[string]interface{}{}
		if err := json.Unmarshal(data, &array); err != nil {
			return nil, TypeNone
		}
		if len(array) > 0 {
			switch getObjectType(array[0]) {
			case TypeRequest:
				return array, TypeBatchRequest
			case TypeResponse:
				return array, TypeBatchResponse
			}
		}
	case TypeJsonObject:
		fieldMap := map[string]interface{}{}
		if err := json.Unmarshal(data, &fieldMap); err != nil {
			return nil, TypeNone
		}
		return fieldMap, getObjectType(fieldMap)
	}
	return nil, TypeNone
}

// Checks if fieldMap is of type JsonRpc. This does not include Batch request and response.
// Fields are checked in a fixed order so that a response carrying an error
// object is never mistaken for a bare error.
func getObjectType(fieldMap map[string]interface{}) JrpcType {
	has := func(field string) bool {
		_, ok := fieldMap[field]
		return ok
	}
	switch {
	case has("method"):
		if has("id") {
			return TypeRequest
		}
		return TypeNotification
	case has("result"), has("error"):
		return TypeResponse
	case has("code"), has("message"):
		return TypeError
	}
	return TypeNone
}

// JsonType represents json Array and Object
type JsonType int

const (
	TypeJsonInvalid JsonType = iota
	TypeJsonArray
	TypeJsonObject
)

func (tp JsonType) String() string {
	switch tp {
	case TypeJsonArray:
		return "TypeJsonArray"
	case TypeJsonObject:
		return "TypeJsonObject"
	}
	return "TypeJsonInvalid"
}

// Checks if is json type [Array, Object, None]
func GetJsonType(data []byte) JsonType {
	// See RFC 7159, Section 2 for the definition of JSON whitespace.
	x := bytes.TrimLeft(data, " \t\r\n")
	if len(x) == 0 {
		return TypeJsonInvalid
	}
	switch x[0] {
	case '[':
		return TypeJsonArray
	case '{':
		return TypeJsonObject
	}
	return TypeJsonInvalid
}
