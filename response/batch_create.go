// Package response turns resource method results into transport-neutral
// responses.
package response

import (
	"fmt"
	"net/http"

	"github.com/kroksys/restbatch/projection"
	"github.com/kroksys/restbatch/resource"
	"github.com/kroksys/restbatch/routing"
	"github.com/kroksys/restbatch/spec"
)

// KeyTranslator maps a canonical key to the key scheme the client asked for.
type KeyTranslator interface {
	TranslateKey(id interface{}, route *routing.Result) interface{}
}

// Projector selects the requested fields of an entity.
type Projector interface {
	Project(data spec.DataMap, mode projection.Mode, mask projection.Mask) spec.DataMap
}

// ErrorRenderer renders a service error into a status and error body.
type ErrorRenderer interface {
	Render(err *resource.ServiceError) (int, *spec.ErrorResponse)
}

// VersionExtractor reads the protocol version from response headers.
type VersionExtractor func(headers map[string]string) spec.ProtocolVersion

// BatchCreateBuilder builds batch create responses in two steps:
// BuildEnvelope normalizes what the resource method returned, BuildResponse
// turns the envelope into the wire payload. It keeps no per-call state.
type BatchCreateBuilder struct {
	errors   ErrorRenderer
	keys     KeyTranslator
	fields   Projector
	versions VersionExtractor
}

type BatchCreateOption func(*BatchCreateBuilder)

func WithKeyTranslator(t KeyTranslator) BatchCreateOption {
	return func(b *BatchCreateBuilder) { b.keys = t }
}

func WithProjector(p Projector) BatchCreateOption {
	return func(b *BatchCreateBuilder) { b.fields = p }
}

func WithVersionExtractor(v VersionExtractor) BatchCreateOption {
	return func(b *BatchCreateBuilder) { b.versions = v }
}

// NewBatchCreateBuilder creates a builder rendering item errors with errors.
func NewBatchCreateBuilder(errors ErrorRenderer, opts ...BatchCreateOption) *BatchCreateBuilder {
	b := &BatchCreateBuilder{
		errors:   errors,
		keys:     routing.Translator{},
		fields:   projection.Projector{},
		versions: spec.ExtractProtocolVersion,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BuildEnvelope normalizes result into an envelope with one item per result
// element, in order. A nil result, a nil result list or a nil element is a
// bug in the resource method and fails the whole call with a 500.
func (b *BatchCreateBuilder) BuildEnvelope(
	route *routing.Result,
	result resource.BatchCreateOutcome,
	headers map[string]string,
	cookies []*http.Cookie,
) (*CreateCollectionEnvelope, error) {
	if route == nil {
		route = routing.NewResult(routing.ResourceMethod{}, nil, nil)
	} else if route.Context == nil {
		route = routing.NewResult(route.Method, nil, route.AltKeys)
	}
	version := b.versions(headers)

	var (
		items []CollectionCreateItem
		err   error
	)
	switch r := result.(type) {
	case *resource.BatchCreateKVResult:
		items, err = b.kvItems(route, r, version)
	case *resource.BatchCreateResult:
		items, err = b.idItems(route, r, version)
	default:
		err = nullResults(route, "BatchCreateResult")
	}
	if err != nil {
		return nil, err
	}
	return NewCreateCollectionEnvelope(items, headers, cookies), nil
}

func (b *BatchCreateBuilder) idItems(route *routing.Result, r *resource.BatchCreateResult, version spec.ProtocolVersion) ([]CollectionCreateItem, error) {
	if r == nil || r.Results == nil {
		return nil, nullResults(route, "BatchCreateResult")
	}
	items := make([]CollectionCreateItem, 0, len(r.Results))
	for _, e := range r.Results {
		if e == nil {
			return nil, nullElement(route, "BatchCreateResult")
		}
		id := b.keys.TranslateKey(e.ID, route)
		if e.Error != nil {
			items = append(items, NewCreateErrorItem(id, e.Error))
			continue
		}
		record := spec.NewCreateIdStatus(e.Status, id, nil, version)
		items = append(items, NewCreateItem(b.locate(record, route)))
	}
	return items, nil
}

func (b *BatchCreateBuilder) kvItems(route *routing.Result, r *resource.BatchCreateKVResult, version spec.ProtocolVersion) ([]CollectionCreateItem, error) {
	if r == nil || r.Results == nil {
		return nil, nullResults(route, "BatchCreateKVResult")
	}
	ctx := route.Context
	items := make([]CollectionCreateItem, 0, len(r.Results))
	for _, e := range r.Results {
		if e == nil {
			return nil, nullElement(route, "BatchCreateKVResult")
		}
		id := b.keys.TranslateKey(e.ID, route)
		if e.Error != nil {
			items = append(items, NewCreateErrorItem(id, e.Error))
			continue
		}
		data := b.fields.Project(e.Entity, ctx.ProjectionMode, ctx.ProjectionMask)
		record := spec.NewCreateIdEntityStatus(e.Status, id, data, nil, version)
		items = append(items, NewCreateItem(b.locate(record, route)))
	}
	return items, nil
}

func (b *BatchCreateBuilder) locate(record spec.CreateIdStatus, route *routing.Result) spec.CreateIdStatus {
	if route.Context.BaseURI == "" || record.ID == nil {
		return record
	}
	return record.WithLocation(spec.KeyLocation(route.Context.BaseURI, record.ID, record.Version))
}

// Format renders the envelope items into wire items, in order. Failed items
// get their error rendered; successful ones are passed through as built.
func (b *BatchCreateBuilder) Format(env *CreateCollectionEnvelope) spec.BatchCreateIdResponse {
	version := b.versions(env.Headers())
	elements := make([]spec.CreateIdStatus, 0, len(env.Items()))
	for _, item := range env.Items() {
		if item.IsError() {
			status, body := b.errors.Render(item.Err())
			elements = append(elements, spec.NewCreateIdStatus(status, item.ID(), body, version))
			continue
		}
		elements = append(elements, item.Record())
	}
	return spec.NewBatchCreateIdResponse(elements)
}

// BuildResponse formats env and attaches its headers and cookies. Per-item
// failures do not change the top level status.
func (b *BatchCreateBuilder) BuildResponse(env *CreateCollectionEnvelope) *PartialResponse {
	return NewPartialResponse(http.StatusOK, env.Headers(), env.Cookies(), b.Format(env))
}

func nullResults(route *routing.Result, kind string) error {
	return resource.WrapServiceError(http.StatusInternalServerError,
		fmt.Sprintf("Unexpected null encountered. Null List inside of a %s returned by the resource method: %s", kind, methodOf(route)),
		resource.ErrNullResults)
}

func nullElement(route *routing.Result, kind string) error {
	return resource.WrapServiceError(http.StatusInternalServerError,
		fmt.Sprintf("Unexpected null encountered. Null element inside of List inside of a %s returned by the resource method: %s", kind, methodOf(route)),
		resource.ErrNullResultElement)
}

func methodOf(route *routing.Result) string {
	if route.Method.Resource == "" {
		return "<unknown>"
	}
	return route.Method.String()
}
