package spec

import (
	"encoding"
	"encoding/json"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// DataMap is the generic, schema-less form of a record on the wire.
type DataMap map[string]interface{}

var (
	jsonMarshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

// ToDataMap flattens a struct (or map) into a DataMap using its json tags.
// The result is a plain tree: nested records are map[string]interface{} and
// lists are []interface{}, whatever Go types they started as. A nil value
// gives a nil DataMap.
func ToDataMap(v interface{}) (DataMap, error) {
	if v == nil {
		return nil, nil
	}
	if m, ok := v.(DataMap); ok {
		return m, nil
	}
	out, err := decodeRecord(v)
	if err != nil {
		return nil, err
	}
	return DataMap(out), nil
}

func decodeRecord(v interface{}) (map[string]interface{}, error) {
	out := map[string]interface{}{}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &out,
		TagName: "json",
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(v); err != nil {
		return nil, err
	}
	for k, field := range out {
		n, err := normalize(reflect.ValueOf(field))
		if err != nil {
			return nil, err
		}
		out[k] = n
	}
	return out, nil
}

// normalize rewrites typed slices, maps, pointers and structs into
// []interface{} and map[string]interface{}. Values with their own JSON or
// text encoding are kept as they are.
func normalize(v reflect.Value) (interface{}, error) {
	if !v.IsValid() {
		return nil, nil
	}
	if v.Type().Implements(jsonMarshalerType) || v.Type().Implements(textMarshalerType) {
		return v.Interface(), nil
	}
	switch v.Kind() {
	case reflect.Interface, reflect.Ptr:
		if v.IsNil() {
			return nil, nil
		}
		return normalize(v.Elem())
	case reflect.Struct:
		return decodeRecord(v.Interface())
	case reflect.Slice:
		if v.IsNil() {
			return nil, nil
		}
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return v.Interface(), nil
		}
		fallthrough
	case reflect.Array:
		items := make([]interface{}, v.Len())
		for i := range items {
			item, err := normalize(v.Index(i))
			if err != nil {
				return nil, err
			}
			items[i] = item
		}
		return items, nil
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return v.Interface(), nil
		}
		if v.IsNil() {
			return nil, nil
		}
		m := make(map[string]interface{}, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			item, err := normalize(iter.Value())
			if err != nil {
				return nil, err
			}
			m[iter.Key().String()] = item
		}
		return m, nil
	}
	return v.Interface(), nil
}
