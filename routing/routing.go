// Package routing describes where a call was dispatched and under which
// request-scoped options (projection, alternate key) it runs.
package routing

import (
	"fmt"

	"github.com/kroksys/restbatch/projection"
)

// MethodType is the kind of a resource method.
type MethodType string

const (
	BatchCreate MethodType = "batch_create"
	Action      MethodType = "action"
)

// ResourceMethod identifies a registered resource method.
type ResourceMethod struct {
	Resource string
	Name     string
	Type     MethodType
}

func (m ResourceMethod) String() string {
	return fmt.Sprintf("%s.%s (%s)", m.Resource, m.Name, m.Type)
}

// AltKey maps canonical keys of a resource onto an alternate key scheme.
type AltKey struct {
	Name          string
	FromCanonical func(canonical interface{}) interface{}
}

// Context holds the request-scoped options a resource method runs with.
type Context struct {
	ProjectionMode projection.Mode
	ProjectionMask projection.Mask

	// Alternate key the client wants ids reported in. Empty means canonical.
	AltKeyName string

	// Base URI of the resource collection, used to build item locations.
	// Empty disables locations.
	BaseURI string

	RequestHeaders map[string]string
}

// Result is the outcome of routing a call to a resource method.
type Result struct {
	Method  ResourceMethod
	Context *Context
	AltKeys map[string]AltKey
}

// NewResult builds a routing result. A nil ctx is replaced by an empty one.
func NewResult(method ResourceMethod, ctx *Context, altKeys map[string]AltKey) *Result {
	if ctx == nil {
		ctx = &Context{}
	}
	return &Result{Method: method, Context: ctx, AltKeys: altKeys}
}

// AltKey returns the alternate key registered under name.
func (r *Result) AltKey(name string) (AltKey, bool) {
	k, ok := r.AltKeys[name]
	return k, ok
}
