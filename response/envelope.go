package response

import (
	"net/http"

	"github.com/kroksys/restbatch/resource"
	"github.com/kroksys/restbatch/spec"
)

// CollectionCreateItem is the normalized outcome of one item of a batch
// create: either a finished status record or a service error, never both.
type CollectionCreateItem struct {
	id     interface{}
	record spec.CreateIdStatus
	err    *resource.ServiceError
}

// NewCreateItem creates a successful item from its final status record.
func NewCreateItem(record spec.CreateIdStatus) CollectionCreateItem {
	return CollectionCreateItem{id: record.ID, record: record}
}

// NewCreateErrorItem creates a failed item.
func NewCreateErrorItem(id interface{}, err *resource.ServiceError) CollectionCreateItem {
	return CollectionCreateItem{id: id, err: err}
}

// ID returns the translated item id.
func (i CollectionCreateItem) ID() interface{} { return i.id }

// IsError reports whether the item failed.
func (i CollectionCreateItem) IsError() bool { return i.err != nil }

// Record returns the status record of a successful item.
func (i CollectionCreateItem) Record() spec.CreateIdStatus { return i.record }

// Err returns the error of a failed item, nil otherwise.
func (i CollectionCreateItem) Err() *resource.ServiceError { return i.err }

// CreateCollectionEnvelope holds the ordered item outcomes of a batch create
// together with the response headers and cookies.
type CreateCollectionEnvelope struct {
	items   []CollectionCreateItem
	headers map[string]string
	cookies []*http.Cookie
}

// NewCreateCollectionEnvelope creates an envelope. Headers and cookies are
// kept as given.
func NewCreateCollectionEnvelope(items []CollectionCreateItem, headers map[string]string, cookies []*http.Cookie) *CreateCollectionEnvelope {
	return &CreateCollectionEnvelope{items: items, headers: headers, cookies: cookies}
}

func (e *CreateCollectionEnvelope) Items() []CollectionCreateItem { return e.items }
func (e *CreateCollectionEnvelope) Headers() map[string]string    { return e.headers }
func (e *CreateCollectionEnvelope) Cookies() []*http.Cookie       { return e.cookies }

// PartialResponse is a response before transport serialization.
type PartialResponse struct {
	status  int
	headers map[string]string
	cookies []*http.Cookie
	entity  interface{}
}

// NewPartialResponse creates a response from its final parts.
func NewPartialResponse(status int, headers map[string]string, cookies []*http.Cookie, entity interface{}) *PartialResponse {
	return &PartialResponse{status: status, headers: headers, cookies: cookies, entity: entity}
}

func (r *PartialResponse) Status() int                { return r.status }
func (r *PartialResponse) Headers() map[string]string { return r.headers }
func (r *PartialResponse) Cookies() []*http.Cookie    { return r.cookies }
func (r *PartialResponse) Entity() interface{}        { return r.entity }
