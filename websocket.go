package restbatch

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gobwas/ws"
	"github.com/kroksys/restbatch/conn"
	"github.com/kroksys/restbatch/registry"
	"github.com/kroksys/restbatch/response"
	"github.com/kroksys/restbatch/spec"
	"go.uber.org/zap"
)

// Main handler for a websocket Conn. It pings, reads and parses incoming
// messages as jrpc objects. Requests are dispatched to resources,
// notifications manage created-event subscriptions.
func (s *Server) defaultConnHandler(ctx context.Context, c *conn.Conn) {
	defer c.Close()
	subs := newConnSubscriptions()
	defer subs.closeAll()
	pinger := time.NewTicker(s.pingPeriod)
	defer pinger.Stop()
	for {
		select {
		case <-pinger.C:
			c.Ping()
		case <-c.Exit:
			return
		case <-ctx.Done():
			return
		case msg, ok := <-c.In:
			if !ok {
				return
			}
			go s.handleMessage(ctx, c, subs, msg)
		}
	}
}

func (s *Server) handleMessage(ctx context.Context, c *conn.Conn, subs *connSubscriptions, msg []byte) {
	data, tp := spec.Parse(msg)
	var reply interface{}
	switch tp {
	case spec.TypeRequest:
		reply = s.call(ctx, data.(spec.Request))
	case spec.TypeBatchRequest:
		batch := spec.BatchResponse{}
		for _, req := range data.(spec.BatchRequest) {
			if req.IsNotification() {
				s.notify(c, subs, spec.NewNotification(req.Method, req.Params))
				continue
			}
			batch = append(batch, s.call(ctx, req))
		}
		if len(batch) == 0 {
			return
		}
		reply = batch
	case spec.TypeNotification:
		s.notify(c, subs, data.(spec.Notification))
		return
	default:
		reply = spec.NewResponseError(nil, spec.NewError(spec.ParseErrorCode, nil))
	}
	if err := c.SendJSON(reply); err != nil {
		s.logger.Debug("reply not delivered", zap.String("conn_id", c.ID), zap.Error(err))
	}
}

// call runs one JSON-RPC request through Handle.
func (s *Server) call(ctx context.Context, req spec.Request) spec.Response {
	resourceName, method, err := registry.SplitMethod(req.Method)
	if err != nil {
		return spec.NewResponseError(req.ID, spec.NewError(spec.MethodNotFoundCode, err.Error()))
	}
	resp := s.Handle(ctx, Call{
		Resource:       resourceName,
		Method:         strings.ToLower(method),
		Params:         req.Params,
		Headers:        req.Headers,
		Fields:         req.Query["fields"],
		ProjectionMode: req.Query["projectionMode"],
		AltKey:         req.Query["altkey"],
	})
	return toRPC(req.ID, resp)
}

func toRPC(id interface{}, resp *response.PartialResponse) spec.Response {
	var out spec.Response
	if body, ok := resp.Entity().(*spec.ErrorResponse); ok && resp.Status() >= http.StatusBadRequest {
		out = spec.NewResponseError(id, spec.NewError(spec.ServiceErrorCode, body))
	} else {
		out = spec.NewResponse(id, resp.Entity())
	}
	out.Headers = resp.Headers()
	return out
}

// notify handles "<resource>_subscribe" and "<resource>_unsubscribe".
func (s *Server) notify(c *conn.Conn, subs *connSubscriptions, n spec.Notification) {
	resourceName, action, err := registry.SplitMethod(n.Method)
	if err != nil {
		s.logger.Debug("bad notification", zap.String("method", n.Method), zap.Error(err))
		return
	}
	switch action {
	case "subscribe":
		if s.FindBatchCreate(resourceName) == nil {
			s.logger.Debug("subscribe to resource without batch create", zap.String("resource", resourceName))
			return
		}
		if sub := subs.add(resourceName, c); sub != nil {
			go sub.run(s)
		}
	case "unsubscribe":
		subs.remove(resourceName)
	default:
		s.logger.Debug("unknown notification", zap.String("method", n.Method))
	}
}

// Gin handler upgrading the request to a websocket. Register it with
// router.GET().
func (s *Server) WebsocketHandlerGin(g *gin.Context) {
	s.WebsocketHandler(g.Writer, g.Request)
}

// Http server handler to upgrade net.Conn to jrpc Conn and
// forwards connection handling to the connection gorutines.
func (s *Server) WebsocketHandler(w http.ResponseWriter, r *http.Request) {
	cn, _, _, err := ws.UpgradeHTTP(r, w)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer cn.Close()
	// the http server may have set deadlines before the upgrade
	_ = cn.SetDeadline(time.Time{})
	s.defaultConnHandler(r.Context(), conn.NewConn(cn, s.logger.Named("conn")))
}
