package spec

import (
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"
)

// CreateIdStatus is the outcome of creating one entity in a batch create
// call. Either Error is set, or the item succeeded and Entity optionally
// holds the projected created entity.
type CreateIdStatus struct {
	// HTTP status of this single item (201, 404, ...).
	Status int

	// Key of the created entity, already translated to the key scheme
	// the client asked for. May be nil for failed items.
	ID interface{}

	// Location of the created entity. Empty means absent.
	Location string

	// Projected entity. Only the entity returning variant of batch create
	// fills this, and never for failed items.
	Entity DataMap

	// Rendered error body. Nil for successful items.
	Error *ErrorResponse

	// Protocol version the item is serialized with. It decides how ID is
	// encoded and is not itself written out.
	Version ProtocolVersion
}

// NewCreateIdStatus returns an item without an entity.
func NewCreateIdStatus(status int, id interface{}, err *ErrorResponse, version ProtocolVersion) CreateIdStatus {
	return CreateIdStatus{
		Status:  status,
		ID:      id,
		Error:   err,
		Version: version,
	}
}

// NewCreateIdEntityStatus returns an item carrying the created entity.
func NewCreateIdEntityStatus(status int, id interface{}, entity DataMap, err *ErrorResponse, version ProtocolVersion) CreateIdStatus {
	s := NewCreateIdStatus(status, id, err, version)
	s.Entity = entity
	return s
}

// WithLocation returns a copy of s with the location set.
func (s CreateIdStatus) WithLocation(location string) CreateIdStatus {
	s.Location = location
	return s
}

// IsError reports whether the item carries an error body.
func (s CreateIdStatus) IsError() bool {
	return s.Error != nil
}

type createIdStatusWire struct {
	Status   int            `json:"status" msgpack:"status"`
	ID       *string        `json:"id,omitempty" msgpack:"id,omitempty"`
	Location string         `json:"location,omitempty" msgpack:"location,omitempty"`
	Entity   DataMap        `json:"entity,omitempty" msgpack:"entity,omitempty"`
	Error    *ErrorResponse `json:"error,omitempty" msgpack:"error,omitempty"`
}

func (s CreateIdStatus) wire() createIdStatusWire {
	w := createIdStatusWire{
		Status:   s.Status,
		Location: s.Location,
		Entity:   s.Entity,
		Error:    s.Error,
	}
	if s.ID != nil {
		id := EncodeKey(s.ID, s.Version)
		w.ID = &id
	}
	if s.Error != nil {
		w.Entity = nil
	}
	return w
}

func (s CreateIdStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.wire())
}

func (s CreateIdStatus) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.Encode(s.wire())
}

// BatchCreateIdResponse is the body of a batch create response. Elements
// are in the order the resource method returned its results.
type BatchCreateIdResponse struct {
	Elements []CreateIdStatus `json:"elements" msgpack:"elements"`
}

// NewBatchCreateIdResponse wraps elements, never producing a nil list.
func NewBatchCreateIdResponse(elements []CreateIdStatus) BatchCreateIdResponse {
	if elements == nil {
		elements = []CreateIdStatus{}
	}
	return BatchCreateIdResponse{Elements: elements}
}
