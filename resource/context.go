package resource

import (
	"context"
	"net/http"
	"sync"
)

// ResponseState collects the headers and cookies a resource method adds to
// its response. One is created per call.
type ResponseState struct {
	mu      sync.Mutex
	headers map[string]string
	cookies []*http.Cookie
}

type stateKey struct{}

// ContextWithResponseState attaches a fresh ResponseState to ctx.
func ContextWithResponseState(ctx context.Context) (context.Context, *ResponseState) {
	st := &ResponseState{headers: map[string]string{}}
	return context.WithValue(ctx, stateKey{}, st), st
}

// SetResponseHeader sets a header on the response of the current call.
// It is a no-op outside of a call.
func SetResponseHeader(ctx context.Context, name, value string) {
	if st, ok := ctx.Value(stateKey{}).(*ResponseState); ok {
		st.mu.Lock()
		st.headers[name] = value
		st.mu.Unlock()
	}
}

// AddResponseCookie adds a cookie to the response of the current call.
func AddResponseCookie(ctx context.Context, c *http.Cookie) {
	if st, ok := ctx.Value(stateKey{}).(*ResponseState); ok {
		st.mu.Lock()
		st.cookies = append(st.cookies, c)
		st.mu.Unlock()
	}
}

// Headers returns a copy of the collected headers.
func (s *ResponseState) Headers() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.headers))
	for k, v := range s.headers {
		out[k] = v
	}
	return out
}

// Cookies returns a copy of the collected cookies.
func (s *ResponseState) Cookies() []*http.Cookie {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*http.Cookie(nil), s.cookies...)
}
