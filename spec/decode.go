package spec

import (
	"github.com/mitchellh/mapstructure"
)

// Decode copies a generic value (usually the result of json.Unmarshal into
// interface{}) into out, matching fields by their json tags.
func Decode(input interface{}, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

// Convert byte slice to T object. Returns nil if the data is not of type tp.
func fromBytes[T any](data []byte, tp JrpcType) *T {
	obj, t := GetJrpcType(data)
	if t != tp {
		return nil
	}
	var out = new(T)
	if err := Decode(obj, out); err != nil {
		return nil
	}
	return out
}

// Decodes byte slice to one of JsonRpc types and returns data and JsonRpc type.
/*	dataObject := []byte(`{"jsonrpc":"2.0","method":"greetings_batchcreate","params":[[{"message":"hi"}]],"id":1}`)
	ob, tp := spec.Parse(dataObject)
	if tp == spec.TypeRequest {
		request := ob.(Request)
	}
*/
func Parse(data []byte) (interface{}, JrpcType) {
	obj, tp := GetJrpcType(data)
	var err error
	switch tp {
	case TypeBatchRequest:
		res := BatchRequest{}
		err = Decode(obj, &res)
		return res, checked(tp, err)
	case TypeRequest:
		res := Request{}
		err = Decode(obj, &res)
		return res, checked(tp, err)
	case TypeBatchResponse:
		res := BatchResponse{}
		err = Decode(obj, &res)
		return res, checked(tp, err)
	case TypeResponse:
		res := Response{}
		err = Decode(obj, &res)
		return res, checked(tp, err)
	case TypeError:
		res := Error{}
		err = Decode(obj, &res)
		return res, checked(tp, err)
	case TypeNotification:
		res := Notification{}
		err = Decode(obj, &res)
		return res, checked(tp, err)
	}
	return nil, TypeNone
}

func checked(tp JrpcType, err error) JrpcType {
	if err != nil {
		return TypeNone
	}
	return tp
}
