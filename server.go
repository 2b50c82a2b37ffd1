package restbatch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/kroksys/restbatch/internal/logger"
	"github.com/kroksys/restbatch/internal/metrics"
	"github.com/kroksys/restbatch/projection"
	"github.com/kroksys/restbatch/registry"
	"github.com/kroksys/restbatch/resource"
	"github.com/kroksys/restbatch/response"
	"github.com/kroksys/restbatch/routing"
	"github.com/kroksys/restbatch/spec"
	"github.com/kroksys/restbatch/subscribers"
	"go.uber.org/zap"
)

const (
	defaultPingPeriod = time.Second * 30
)

// Server dispatches calls to registered resources over HTTP and websocket
// JSON-RPC, and builds their responses.
type Server struct {
	*registry.Registry

	errors      *response.ErrorResponseBuilder
	batchCreate *response.BatchCreateBuilder
	created     *subscribers.Subscribers[CreatedEvent]
	metrics     *metrics.Collectors
	logger      *zap.Logger

	maxVersion  spec.ProtocolVersion
	errorFormat response.ErrorFormat
	baseURI     string
	pingPeriod  time.Duration
}

type Option func(*Server)

func WithLogger(l *zap.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithMetrics records call metrics into c.
func WithMetrics(c *metrics.Collectors) Option {
	return func(s *Server) { s.metrics = c }
}

// WithMaxProtocolVersion caps the protocol version clients may request.
func WithMaxProtocolVersion(v spec.ProtocolVersion) Option {
	return func(s *Server) { s.maxVersion = v }
}

func WithErrorFormat(f response.ErrorFormat) Option {
	return func(s *Server) { s.errorFormat = f }
}

// WithBaseURI makes batch create items carry a location under uri.
func WithBaseURI(uri string) Option {
	return func(s *Server) { s.baseURI = uri }
}

func WithPingPeriod(d time.Duration) Option {
	return func(s *Server) { s.pingPeriod = d }
}

// Creates new server with initialised registry
func NewServer(opts ...Option) *Server {
	s := &Server{
		created:    subscribers.New[CreatedEvent](),
		logger:     zap.NewNop(),
		maxVersion: spec.LatestProtocolVersion,
		pingPeriod: defaultPingPeriod,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Registry = registry.NewRegistry(s.logger.Named("registry"))
	s.errors = response.NewErrorResponseBuilder(s.errorFormat)
	s.batchCreate = response.NewBatchCreateBuilder(s.errors)
	return s
}

// Call is a transport independent resource method invocation.
type Call struct {
	Resource string

	// Lowercased method name. Ignored when BatchCreate is set.
	Method      string
	BatchCreate bool

	Params  interface{}
	Headers map[string]string

	Fields         string
	ProjectionMode string
	AltKey         string

	// Rejected is set by a transport that could not decode the call. The
	// call is answered with a 400 once the protocol version is negotiated.
	Rejected error
}

// ActionResult wraps the value returned by an action method.
type ActionResult struct {
	Value interface{} `json:"value,omitempty" msgpack:"value,omitempty"`
}

// Handle runs call and returns its response. Failures of any kind are
// rendered as error responses, so the result is never nil.
func (s *Server) Handle(ctx context.Context, call Call) *response.PartialResponse {
	start := time.Now()
	log := s.logger.With(zap.String("resource", call.Resource), zap.String("method", call.Method))

	resp, method := s.handle(logger.ContextWithLogger(ctx, log), log, call)

	methodLabel := metricsMethod(call, method)
	if s.metrics != nil {
		s.metrics.RequestsTotal.WithLabelValues(call.Resource, methodLabel, strconv.Itoa(resp.Status())).Inc()
		s.metrics.RequestDuration.WithLabelValues(call.Resource, methodLabel).Observe(time.Since(start).Seconds())
	}
	log.Debug("call handled", zap.Int("status", resp.Status()), zap.Duration("took", time.Since(start)))
	return resp
}

func (s *Server) handle(ctx context.Context, log *zap.Logger, call Call) (*response.PartialResponse, *registry.Method) {
	headers := map[string]string{}
	requested, _ := spec.HeaderValue(call.Headers, spec.ProtocolVersionHeader)
	version, err := spec.NegotiateProtocolVersion(requested, s.maxVersion)
	if err != nil {
		return s.fail(resource.WrapServiceError(http.StatusBadRequest, "unsupported protocol version", err), headers, nil), nil
	}
	headers[spec.ProtocolVersionHeader] = version.String()
	if call.Rejected != nil {
		return s.fail(resource.WrapServiceError(http.StatusBadRequest, "malformed request", call.Rejected), headers, nil), nil
	}

	var method *registry.Method
	if call.BatchCreate {
		method = s.FindBatchCreate(call.Resource)
	} else {
		method = s.FindMethod(call.Resource, call.Method)
	}
	if method == nil {
		return s.fail(resource.NewServiceError(http.StatusNotFound,
			fmt.Sprintf("resource %q has no method %q", call.Resource, call.Method)), headers, nil), nil
	}

	rctx, err := s.routingContext(call)
	if err != nil {
		return s.fail(resource.WrapServiceError(http.StatusBadRequest, "invalid request options", err), headers, nil), method
	}
	route, err := s.Route(call.Resource, method, rctx)
	if err != nil {
		return s.fail(resource.WrapServiceError(http.StatusBadRequest, "invalid request options", err), headers, nil), method
	}
	args, err := method.ParseArgs(call.Params)
	if err != nil {
		return s.fail(resource.WrapServiceError(http.StatusBadRequest, "invalid params", err), headers, nil), method
	}

	ctx, state := resource.ContextWithResponseState(ctx)
	out, err := method.Call(ctx, args)
	for k, v := range state.Headers() {
		if k != spec.ProtocolVersionHeader {
			headers[k] = v
		}
	}
	cookies := state.Cookies()
	if err != nil {
		se := resource.AsServiceError(err)
		if se.Status >= http.StatusInternalServerError {
			log.Error("resource method failed", zap.Error(err))
		}
		return s.fail(se, headers, cookies), method
	}

	if method.Type != routing.BatchCreate {
		return response.NewPartialResponse(http.StatusOK, headers, cookies, ActionResult{Value: out}), method
	}

	outcome, _ := out.(resource.BatchCreateOutcome)
	env, err := s.batchCreate.BuildEnvelope(route, outcome, headers, cookies)
	if err != nil {
		log.Error("resource method broke the batch create contract", zap.Error(err))
		if s.metrics != nil {
			s.metrics.FatalErrorsTotal.WithLabelValues(call.Resource, fatalKind(err)).Inc()
		}
		return s.fail(resource.AsServiceError(err), headers, cookies), method
	}
	s.observeBatch(route, env)
	return s.batchCreate.BuildResponse(env), method
}

func (s *Server) routingContext(call Call) (*routing.Context, error) {
	mode, err := projection.ParseMode(call.ProjectionMode)
	if err != nil {
		return nil, err
	}
	mask, err := projection.ParseMask(call.Fields)
	if err != nil {
		return nil, err
	}
	baseURI := ""
	if s.baseURI != "" {
		baseURI = s.baseURI + "/" + call.Resource
	}
	return &routing.Context{
		ProjectionMode: mode,
		ProjectionMask: mask,
		AltKeyName:     call.AltKey,
		BaseURI:        baseURI,
		RequestHeaders: call.Headers,
	}, nil
}

func (s *Server) fail(err *resource.ServiceError, headers map[string]string, cookies []*http.Cookie) *response.PartialResponse {
	return s.errors.BuildErrorResponse(err, headers, cookies)
}

// observeBatch counts item outcomes and publishes created items.
func (s *Server) observeBatch(route *routing.Result, env *response.CreateCollectionEnvelope) {
	created, failed := 0, 0
	for _, item := range env.Items() {
		if item.IsError() {
			failed++
			continue
		}
		created++
		s.publishCreated(route.Method.Resource, item.Record())
	}
	if s.metrics != nil {
		s.metrics.BatchCreateItemsTotal.WithLabelValues(route.Method.Resource, metrics.OutcomeCreated).Add(float64(created))
		s.metrics.BatchCreateItemsTotal.WithLabelValues(route.Method.Resource, metrics.OutcomeFailed).Add(float64(failed))
	}
}

// metricsMethod labels a call by the method it resolved to, so a batch
// create has one label whichever transport named it.
func metricsMethod(call Call, method *registry.Method) string {
	switch {
	case method != nil && method.Type == routing.BatchCreate, method == nil && call.BatchCreate:
		return string(routing.BatchCreate)
	case method != nil:
		return method.Name
	case call.Method == "":
		return "unknown"
	}
	return call.Method
}

func fatalKind(err error) string {
	switch {
	case errors.Is(err, resource.ErrNullResultElement):
		return "null_element"
	case errors.Is(err, resource.ErrNullResults):
		return "null_results"
	}
	return "other"
}
