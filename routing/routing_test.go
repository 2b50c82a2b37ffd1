package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func altKeys() map[string]AltKey {
	return map[string]AltKey{
		"slug": {Name: "slug", FromCanonical: func(id interface{}) interface{} {
			if s, ok := id.(string); ok {
				return s
			}
			return "slug-1"
		}},
		"broken": {Name: "broken"},
	}
}

func TestNewResult(t *testing.T) {
	r := NewResult(ResourceMethod{Resource: "greetings", Name: "batchcreate", Type: BatchCreate}, nil, nil)
	assert.NotNil(t, r.Context)
	assert.Equal(t, "greetings.batchcreate (batch_create)", r.Method.String())
	_, ok := r.AltKey("slug")
	assert.False(t, ok)
}

func TestTranslator_TranslateKey(t *testing.T) {
	tr := Translator{}
	tests := []struct {
		name string
		id   interface{}
		r    *Result
		want interface{}
	}{
		{name: "nil route", id: 1, r: nil, want: 1},
		{name: "no alt key", id: 1, r: NewResult(ResourceMethod{}, nil, altKeys()), want: 1},
		{name: "alt key", id: 1, r: NewResult(ResourceMethod{}, &Context{AltKeyName: "slug"}, altKeys()), want: "slug-1"},
		{name: "unknown alt key", id: 1, r: NewResult(ResourceMethod{}, &Context{AltKeyName: "nope"}, altKeys()), want: 1},
		{name: "no converter", id: 1, r: NewResult(ResourceMethod{}, &Context{AltKeyName: "broken"}, altKeys()), want: 1},
		{name: "nil id", id: nil, r: NewResult(ResourceMethod{}, &Context{AltKeyName: "slug"}, altKeys()), want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tr.TranslateKey(tt.id, tt.r))
		})
	}
}

func TestTranslator_CanonicalIsIdempotent(t *testing.T) {
	tr := Translator{}
	r := NewResult(ResourceMethod{}, nil, altKeys())
	for _, id := range []interface{}{1, "a", int64(9)} {
		once := tr.TranslateKey(id, r)
		assert.Equal(t, id, once)
		assert.Equal(t, once, tr.TranslateKey(once, r))
	}
}
