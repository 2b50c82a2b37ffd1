package registry

import "github.com/kroksys/restbatch/routing"

// Service represents struct with its methods and is registered with a name
type Service struct {
	Name        string
	methods     map[string]*Method
	batchCreate *Method
	altKeys     map[string]routing.AltKey
}

// ServiceOption configures a service at registration.
type ServiceOption func(*Service)

// WithAltKey registers an alternate key scheme clients may ask ids in.
func WithAltKey(name string, fromCanonical func(canonical interface{}) interface{}) ServiceOption {
	return func(s *Service) {
		s.altKeys[name] = routing.AltKey{Name: name, FromCanonical: fromCanonical}
	}
}
