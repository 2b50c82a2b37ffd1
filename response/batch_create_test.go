package response

import (
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/kroksys/restbatch/projection"
	"github.com/kroksys/restbatch/resource"
	"github.com/kroksys/restbatch/routing"
	"github.com/kroksys/restbatch/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var v2Headers = map[string]string{spec.ProtocolVersionHeader: "2.0.0"}

func newRoute(ctx *routing.Context) *routing.Result {
	return routing.NewResult(
		routing.ResourceMethod{Resource: "greetings", Name: "batchcreate", Type: routing.BatchCreate},
		ctx,
		map[string]routing.AltKey{
			"slug": {Name: "slug", FromCanonical: func(id interface{}) interface{} {
				if s, ok := id.(string); ok {
					return s
				}
				return "greeting-" + spec.EncodeKey(id, spec.LatestProtocolVersion)
			}},
		},
	)
}

func newBuilder() *BatchCreateBuilder {
	return NewBatchCreateBuilder(NewErrorResponseBuilder(FormatFull))
}

func build(t *testing.T, b *BatchCreateBuilder, route *routing.Result, result resource.BatchCreateOutcome) spec.BatchCreateIdResponse {
	t.Helper()
	env, err := b.BuildEnvelope(route, result, v2Headers, nil)
	require.NoError(t, err)
	return b.Format(env)
}

func TestBatchCreate_MixedKV(t *testing.T) {
	result := &resource.BatchCreateKVResult{Results: []*resource.CreateKVResponse{
		resource.NewCreatedKV(1, spec.DataMap{"message": "hi", "tone": "friendly"}),
		resource.NewCreateKVError(2, resource.NewServiceError(http.StatusNotFound, "not found")),
	}}

	out := build(t, newBuilder(), newRoute(nil), result)
	require.Len(t, out.Elements, 2)

	first := out.Elements[0]
	assert.Equal(t, 201, first.Status)
	assert.Equal(t, 1, first.ID)
	assert.Equal(t, spec.DataMap{"message": "hi", "tone": "friendly"}, first.Entity)
	assert.Nil(t, first.Error)

	second := out.Elements[1]
	assert.Equal(t, 404, second.Status)
	assert.Equal(t, 2, second.ID)
	assert.Nil(t, second.Entity)
	require.NotNil(t, second.Error)
	assert.Equal(t, 404, second.Error.Status)
	assert.Equal(t, "not found", second.Error.Message)
}

func TestBatchCreate_IdOnly(t *testing.T) {
	result := &resource.BatchCreateResult{Results: []*resource.CreateResponse{
		resource.NewCreated("a"),
		resource.NewCreateError("b", resource.NewServiceError(http.StatusConflict, "exists")),
		{ID: "c", Status: http.StatusAccepted},
	}}

	out := build(t, newBuilder(), newRoute(nil), result)
	require.Len(t, out.Elements, 3)
	assert.Equal(t, []interface{}{"a", "b", "c"}, ids(out))
	assert.Equal(t, []int{201, 409, 202}, statuses(out))
	for _, e := range out.Elements {
		assert.Nil(t, e.Entity)
	}
	assert.Nil(t, out.Elements[0].Error)
	assert.NotNil(t, out.Elements[1].Error)
	assert.Nil(t, out.Elements[2].Error)
}

func TestBatchCreate_PreservesOrderAndLength(t *testing.T) {
	for _, n := range []int{0, 1, 7, 50} {
		kv := &resource.BatchCreateKVResult{Results: make([]*resource.CreateKVResponse, 0, n)}
		id := &resource.BatchCreateResult{Results: make([]*resource.CreateResponse, 0, n)}
		want := make([]interface{}, 0, n)
		for i := 0; i < n; i++ {
			if i%3 == 0 {
				kv.Results = append(kv.Results, resource.NewCreateKVError(i, resource.NewServiceError(400, "bad")))
				id.Results = append(id.Results, resource.NewCreateError(i, resource.NewServiceError(400, "bad")))
			} else {
				kv.Results = append(kv.Results, resource.NewCreatedKV(i, spec.DataMap{"n": i}))
				id.Results = append(id.Results, resource.NewCreated(i))
			}
			want = append(want, i)
		}

		for _, result := range []resource.BatchCreateOutcome{kv, id} {
			out := build(t, newBuilder(), newRoute(nil), result)
			assert.Len(t, out.Elements, n)
			assert.Equal(t, want, ids(out))
			for i, e := range out.Elements {
				assert.Equal(t, i%3 == 0, e.IsError(), "item %d", i)
			}
		}
	}
}

func TestBatchCreate_EmptyBatch(t *testing.T) {
	b := newBuilder()
	for _, result := range []resource.BatchCreateOutcome{
		&resource.BatchCreateResult{Results: []*resource.CreateResponse{}},
		&resource.BatchCreateKVResult{Results: []*resource.CreateKVResponse{}},
	} {
		env, err := b.BuildEnvelope(newRoute(nil), result, v2Headers, nil)
		require.NoError(t, err)
		resp := b.BuildResponse(env)
		assert.Equal(t, http.StatusOK, resp.Status())
		body := resp.Entity().(spec.BatchCreateIdResponse)
		assert.NotNil(t, body.Elements)
		assert.Empty(t, body.Elements)
	}
}

func TestBatchCreate_NullResults(t *testing.T) {
	b := newBuilder()
	tests := []struct {
		name   string
		result resource.BatchCreateOutcome
		kind   string
	}{
		{name: "id only", result: &resource.BatchCreateResult{}, kind: "BatchCreateResult"},
		{name: "with entity", result: &resource.BatchCreateKVResult{}, kind: "BatchCreateKVResult"},
		{name: "nil outcome", result: nil, kind: "BatchCreateResult"},
		{name: "typed nil", result: (*resource.BatchCreateKVResult)(nil), kind: "BatchCreateKVResult"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := b.BuildEnvelope(newRoute(nil), tt.result, v2Headers, nil)
			assert.Nil(t, env)
			require.Error(t, err)
			assert.True(t, errors.Is(err, resource.ErrNullResults))

			var se *resource.ServiceError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, http.StatusInternalServerError, se.Status)
			assert.Contains(t, se.Message, "Null List inside of a "+tt.kind)
			assert.Contains(t, se.Message, "greetings.batchcreate")
		})
	}
}

func TestBatchCreate_NullElement(t *testing.T) {
	b := newBuilder()
	tests := []struct {
		name   string
		result resource.BatchCreateOutcome
	}{
		{name: "id only", result: &resource.BatchCreateResult{Results: []*resource.CreateResponse{
			resource.NewCreated(1), nil, resource.NewCreated(3),
		}}},
		{name: "with entity", result: &resource.BatchCreateKVResult{Results: []*resource.CreateKVResponse{
			resource.NewCreatedKV(1, nil), nil,
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := b.BuildEnvelope(newRoute(nil), tt.result, v2Headers, nil)
			assert.Nil(t, env)
			assert.True(t, errors.Is(err, resource.ErrNullResultElement))
			assert.False(t, errors.Is(err, resource.ErrNullResults))

			var se *resource.ServiceError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, http.StatusInternalServerError, se.Status)
			assert.Contains(t, se.Message, "Null element")
		})
	}
}

func TestBatchCreate_ProtocolVersionStampedOnEveryItem(t *testing.T) {
	result := &resource.BatchCreateKVResult{Results: []*resource.CreateKVResponse{
		resource.NewCreatedKV(1, nil),
		resource.NewCreateKVError(2, resource.NewServiceError(500, "boom")),
	}}
	for _, headers := range []map[string]string{
		{spec.ProtocolVersionHeader: "2.0.0"},
		{"x-restli-protocol-version": "1.0.0"},
		{},
	} {
		b := newBuilder()
		env, err := b.BuildEnvelope(newRoute(nil), result, headers, nil)
		require.NoError(t, err)
		want := spec.ExtractProtocolVersion(headers)
		for _, e := range b.Format(env).Elements {
			assert.Equal(t, want, e.Version)
		}
	}
}

func TestBatchCreate_ProjectsEntities(t *testing.T) {
	mask, err := projection.ParseMask("message,author:(name)")
	require.NoError(t, err)
	entity := spec.DataMap{
		"message": "hi",
		"tone":    "formal",
		"author":  map[string]interface{}{"name": "ann", "email": "a@x"},
	}
	result := &resource.BatchCreateKVResult{Results: []*resource.CreateKVResponse{
		resource.NewCreatedKV(1, entity),
		resource.NewCreatedKV(2, nil),
	}}

	out := build(t, newBuilder(), newRoute(&routing.Context{ProjectionMask: mask}), result)
	assert.Equal(t, spec.DataMap{
		"message": "hi",
		"author":  spec.DataMap{"name": "ann"},
	}, out.Elements[0].Entity)
	assert.Nil(t, out.Elements[1].Entity)

	// manual projection leaves the entity as the resource returned it
	out = build(t, newBuilder(), newRoute(&routing.Context{ProjectionMode: projection.Manual, ProjectionMask: mask}), result)
	assert.Equal(t, entity, out.Elements[0].Entity)
}

func TestBatchCreate_TranslatesKeys(t *testing.T) {
	result := &resource.BatchCreateResult{Results: []*resource.CreateResponse{
		resource.NewCreated(7),
		resource.NewCreateError(8, resource.NewServiceError(400, "bad")),
	}}
	out := build(t, newBuilder(), newRoute(&routing.Context{AltKeyName: "slug"}), result)
	assert.Equal(t, []interface{}{"greeting-7", "greeting-8"}, ids(out))
}

func TestBatchCreate_Locations(t *testing.T) {
	result := &resource.BatchCreateResult{Results: []*resource.CreateResponse{
		resource.NewCreated(spec.CompoundKey{"a": 1, "b": "x"}),
		resource.NewCreateError(2, resource.NewServiceError(400, "bad")),
	}}
	out := build(t, newBuilder(), newRoute(&routing.Context{BaseURI: "http://h/greetings"}), result)
	assert.Equal(t, "http://h/greetings/%28a:1%2Cb:x%29", out.Elements[0].Location)
	assert.Empty(t, out.Elements[1].Location)
}

func TestBatchCreate_PassesHeadersAndCookiesThrough(t *testing.T) {
	headers := map[string]string{spec.ProtocolVersionHeader: "2.0.0", "X-Trace": "t1"}
	cookies := []*http.Cookie{{Name: "session", Value: "s1"}}
	b := newBuilder()

	env, err := b.BuildEnvelope(newRoute(nil), &resource.BatchCreateResult{Results: []*resource.CreateResponse{}}, headers, cookies)
	require.NoError(t, err)
	resp := b.BuildResponse(env)
	assert.Equal(t, headers, resp.Headers())
	assert.Equal(t, cookies, resp.Cookies())
}

func TestBatchCreate_DoesNotMutateInput(t *testing.T) {
	entity := spec.DataMap{"message": "hi", "tone": "formal"}
	item := resource.NewCreatedKV(1, entity)
	result := &resource.BatchCreateKVResult{Results: []*resource.CreateKVResponse{item}}
	mask, _ := projection.ParseMask("message")

	build(t, newBuilder(), newRoute(&routing.Context{ProjectionMask: mask, AltKeyName: "slug"}), result)
	assert.Equal(t, 1, item.ID)
	assert.Equal(t, spec.DataMap{"message": "hi", "tone": "formal"}, item.Entity)
}

func TestBatchCreate_ConcurrentUse(t *testing.T) {
	b := newBuilder()
	result := &resource.BatchCreateKVResult{Results: []*resource.CreateKVResponse{
		resource.NewCreatedKV(1, spec.DataMap{"message": "hi"}),
		resource.NewCreateKVError(2, resource.NewServiceError(404, "nf")),
	}}
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			env, err := b.BuildEnvelope(newRoute(nil), result, v2Headers, nil)
			if assert.NoError(t, err) {
				assert.Len(t, b.Format(env).Elements, 2)
			}
		}()
	}
	wg.Wait()
}

type fixedVersion spec.ProtocolVersion

func (f fixedVersion) extract(map[string]string) spec.ProtocolVersion { return spec.ProtocolVersion(f) }

type upperKeys struct{}

func (upperKeys) TranslateKey(id interface{}, _ *routing.Result) interface{} {
	return "K" + spec.EncodeKey(id, spec.LatestProtocolVersion)
}

func TestBatchCreate_InjectedCollaborators(t *testing.T) {
	b := NewBatchCreateBuilder(NewErrorResponseBuilder(FormatMinimal),
		WithKeyTranslator(upperKeys{}),
		WithVersionExtractor(fixedVersion{Major: 3}.extract),
	)
	out := build(t, b, newRoute(nil), &resource.BatchCreateResult{Results: []*resource.CreateResponse{
		resource.NewCreated(1),
		resource.NewCreateError(2, resource.NewServiceError(404, "nf")),
	}})
	assert.Equal(t, []interface{}{"K1", "K2"}, ids(out))
	for _, e := range out.Elements {
		assert.Equal(t, spec.ProtocolVersion{Major: 3}, e.Version)
	}
	assert.Equal(t, &spec.ErrorResponse{Status: 404}, out.Elements[1].Error)
}

func ids(out spec.BatchCreateIdResponse) []interface{} {
	res := make([]interface{}, len(out.Elements))
	for i, e := range out.Elements {
		res[i] = e.ID
	}
	return res
}

func statuses(out spec.BatchCreateIdResponse) []int {
	res := make([]int, len(out.Elements))
	for i, e := range out.Elements {
		res[i] = e.Status
	}
	return res
}
