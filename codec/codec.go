// Package codec encodes and decodes HTTP bodies by content type.
package codec

import (
	"encoding/json"
	"mime"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

const (
	JSONContentType    = "application/json"
	MsgpackContentType = "application/x-msgpack"
)

// Codec marshals values for one content type.
type Codec interface {
	ContentType() string
	Marshal(v interface{}) ([]byte, error)
	Unmarshal(data []byte, v interface{}) error
}

type jsonCodec struct{}

func (jsonCodec) ContentType() string                        { return JSONContentType }
func (jsonCodec) Marshal(v interface{}) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v interface{}) error { return json.Unmarshal(data, v) }

type msgpackCodec struct{}

func (msgpackCodec) ContentType() string                        { return MsgpackContentType }
func (msgpackCodec) Marshal(v interface{}) ([]byte, error)      { return msgpack.Marshal(v) }
func (msgpackCodec) Unmarshal(data []byte, v interface{}) error { return msgpack.Unmarshal(data, v) }

var (
	JSON    Codec = jsonCodec{}
	Msgpack Codec = msgpackCodec{}
)

// ForContentType picks the codec of a Content-Type header. Unknown or empty
// values fall back to JSON.
func ForContentType(contentType string) Codec {
	mt, _, err := mime.ParseMediaType(contentType)
	if err == nil && mt == MsgpackContentType {
		return Msgpack
	}
	return JSON
}

// ForAccept picks the response codec of an Accept header. The first
// supported media type wins; JSON is the default.
func ForAccept(accept string) Codec {
	for _, part := range strings.Split(accept, ",") {
		mt, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		switch mt {
		case MsgpackContentType:
			return Msgpack
		case JSONContentType, "*/*":
			return JSON
		}
	}
	return JSON
}
