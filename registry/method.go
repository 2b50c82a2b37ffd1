package registry

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"runtime"

	"github.com/kroksys/restbatch/resource"
	"github.com/kroksys/restbatch/routing"
	"github.com/kroksys/restbatch/spec"
	"go.uber.org/zap"
)

type Method struct {
	Name     string
	Type     routing.MethodType
	receiver reflect.Value
	fn       reflect.Value
	args     []reflect.Type
	errPos   int
	hasCtx   bool
	logger   *zap.Logger
}

// ParseArgs decodes call parameters into the method's argument types. An
// array is taken positionally, any other value is the single argument.
func (m *Method) ParseArgs(params interface{}) ([]reflect.Value, error) {
	var raw []interface{}
	switch p := params.(type) {
	case nil:
	case []interface{}:
		raw = p
	default:
		raw = []interface{}{p}
	}
	if len(raw) != len(m.args) {
		return nil, fmt.Errorf("%w: expected %d arguments, got %d", ErrInvalidParams, len(m.args), len(raw))
	}
	result := make([]reflect.Value, 0, len(m.args))
	for i, param := range raw {
		v := reflect.New(m.args[i])
		if err := spec.Decode(param, v.Interface()); err != nil {
			return nil, fmt.Errorf("%w: argument %d: %v", ErrInvalidParams, i, err)
		}
		result = append(result, v.Elem())
	}
	return result, nil
}

// Call runs the method. A panic inside the method is recovered and reported
// as a 500 service error.
func (m *Method) Call(ctx context.Context, args []reflect.Value) (res interface{}, errRes error) {
	callArgs := []reflect.Value{m.receiver}
	if m.hasCtx {
		callArgs = append(callArgs, reflect.ValueOf(ctx))
	}
	callArgs = append(callArgs, args...)

	defer func() {
		if r := recover(); r != nil {
			const size = 64 << 10
			buf := make([]byte, size)
			buf = buf[:runtime.Stack(buf, false)]
			m.logger.Error("resource method crashed",
				zap.String("method", m.Name),
				zap.Any("panic", r),
				zap.ByteString("stack", buf))
			res = nil
			errRes = resource.WrapServiceError(http.StatusInternalServerError,
				"resource method crashed", fmt.Errorf("panic: %v", r))
		}
	}()

	outputs := m.fn.Call(callArgs)
	if len(outputs) == 0 {
		return nil, nil
	}

	if m.errPos >= 0 && !outputs[m.errPos].IsNil() {
		return nil, outputs[m.errPos].Interface().(error)
	}
	if m.errPos == 0 {
		return nil, nil
	}
	return outputs[0].Interface(), nil
}
