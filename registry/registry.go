package registry

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/kroksys/restbatch/resource"
	"github.com/kroksys/restbatch/routing"
	"go.uber.org/zap"
)

var (
	ErrMethodNotFound = errors.New("method not found")
	ErrInvalidParams  = errors.New("invalid params")
	ErrUnknownAltKey  = errors.New("unknown alternate key")
)

var (
	outcomeType = reflect.TypeOf((*resource.BatchCreateOutcome)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
)

type Registry struct {
	services map[string]Service
	lock     sync.RWMutex
	logger   *zap.Logger
}

func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		services: make(map[string]Service),
		logger:   logger,
	}
}

// Register exposes the exported methods of service under name. Methods are
// called as "<name>_<lowercased method name>". A method whose first result
// is a resource.BatchCreateOutcome becomes the batch create method of the
// resource; every other method is an action.
func (reg *Registry) Register(name string, service interface{}, opts ...ServiceOption) error {
	svc := Service{
		Name:    name,
		altKeys: make(map[string]routing.AltKey),
	}
	svc.methods, svc.batchCreate = reg.extractMethods(name, reflect.ValueOf(service))
	if len(svc.methods) == 0 {
		return fmt.Errorf("service %T doesn't have methods to expose", service)
	}
	for _, opt := range opts {
		opt(&svc)
	}
	reg.lock.Lock()
	defer reg.lock.Unlock()
	if _, ok := reg.services[name]; ok {
		return fmt.Errorf("service %q is already registered", name)
	}
	reg.services[name] = svc
	reg.logger.Debug("resource registered",
		zap.String("resource", name),
		zap.Int("methods", len(svc.methods)),
		zap.Bool("batch_create", svc.batchCreate != nil))
	return nil
}

func (reg *Registry) FindMethod(service, name string) *Method {
	reg.lock.RLock()
	defer reg.lock.RUnlock()
	return reg.services[service].methods[strings.ToLower(name)]
}

// FindBatchCreate returns the batch create method of service, if any.
func (reg *Registry) FindBatchCreate(service string) *Method {
	reg.lock.RLock()
	defer reg.lock.RUnlock()
	return reg.services[service].batchCreate
}

// Route resolves a call to a method and builds its routing result. An
// alternate key unknown to the resource is rejected here, so key
// translation later on cannot fail.
func (reg *Registry) Route(service string, method *Method, ctx *routing.Context) (*routing.Result, error) {
	reg.lock.RLock()
	svc, ok := reg.services[service]
	reg.lock.RUnlock()
	if !ok || method == nil {
		return nil, fmt.Errorf("%w: %s", ErrMethodNotFound, service)
	}
	if ctx != nil && ctx.AltKeyName != "" {
		if _, ok := svc.altKeys[ctx.AltKeyName]; !ok {
			return nil, fmt.Errorf("%w %q for resource %s", ErrUnknownAltKey, ctx.AltKeyName, service)
		}
	}
	rm := routing.ResourceMethod{Resource: service, Name: method.Name, Type: method.Type}
	return routing.NewResult(rm, ctx, svc.altKeys), nil
}

// SplitMethod splits a "<resource>_<method>" call name.
func SplitMethod(full string) (string, string, error) {
	split := strings.SplitN(full, "_", 2)
	if len(split) != 2 || split[0] == "" || split[1] == "" {
		return "", "", fmt.Errorf("%w: invalid method name %q", ErrMethodNotFound, full)
	}
	return split[0], split[1], nil
}

func (reg *Registry) extractMethods(name string, theStruct reflect.Value) (map[string]*Method, *Method) {
	methods := make(map[string]*Method)
	var batchCreate *Method
	structType := theStruct.Type()
	for i := 0; i < structType.NumMethod(); i++ {
		m := structType.Method(i)
		if m.PkgPath != "" { // not exported
			continue
		}
		fntype := m.Func.Type()
		// Arguments
		args := []reflect.Type{}
		hasCtx := false
		for j := 1; j < fntype.NumIn(); j++ {
			if j == 1 && fntype.In(j) == contextType {
				hasCtx = true
				continue
			}
			args = append(args, fntype.In(j))
		}
		// Returns
		numOut := fntype.NumOut()
		errPos := -1
		if numOut > 2 {
			continue
		}
		if numOut == 2 {
			if !reg.isErrorType(fntype.Out(1)) {
				continue
			}
			errPos = 1
		}
		if numOut == 1 && reg.isErrorType(fntype.Out(0)) {
			errPos = 0
		}
		method := &Method{
			Name:     strings.ToLower(m.Name),
			Type:     routing.Action,
			receiver: theStruct,
			fn:       m.Func,
			args:     args,
			errPos:   errPos,
			hasCtx:   hasCtx,
			logger:   reg.logger.With(zap.String("resource", name)),
		}
		if numOut > 0 && errPos != 0 && reg.isOutcomeType(fntype.Out(0)) {
			method.Type = routing.BatchCreate
			if batchCreate == nil {
				batchCreate = method
			}
		}
		methods[method.Name] = method
	}
	return methods, batchCreate
}

func (*Registry) isErrorType(t reflect.Type) bool {
	return t.Implements(errorType)
}

func (*Registry) isOutcomeType(t reflect.Type) bool {
	return t == outcomeType || t.Implements(outcomeType)
}
