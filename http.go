package restbatch

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kroksys/restbatch/codec"
	"github.com/kroksys/restbatch/response"
	"github.com/kroksys/restbatch/routing"
	"github.com/kroksys/restbatch/spec"
	"go.uber.org/zap"
)

// Routes mounts the resource endpoints on r:
//
//	POST /:resource            batch create (X-RestLi-Method: batch_create)
//	POST /:resource?action=x   action x
func (s *Server) Routes(r gin.IRoutes) {
	r.POST("/:resource", s.HTTPHandler)
}

// HTTPHandler serves one resource call. The body is decoded by its
// Content-Type and the response encoded by Accept (JSON or MessagePack).
func (s *Server) HTTPHandler(g *gin.Context) {
	out := codec.ForAccept(g.GetHeader("Accept"))
	call := Call{
		Resource:       g.Param("resource"),
		Headers:        flattenHeaders(g.Request.Header),
		Fields:         g.Query("fields"),
		ProjectionMode: g.Query("projectionMode"),
		AltKey:         g.Query("altkey"),
	}

	if action := g.Query("action"); action != "" {
		call.Method = strings.ToLower(action)
	} else if m := g.GetHeader(spec.MethodHeader); m == "" || m == string(routing.BatchCreate) {
		call.BatchCreate = true
	} else {
		call.Rejected = fmt.Errorf("unsupported %s %q", spec.MethodHeader, m)
	}

	if call.Rejected == nil {
		payload, err := readBody(g)
		if err != nil {
			call.Rejected = fmt.Errorf("malformed body: %w", err)
		}
		call.Params = httpParams(call.BatchCreate, payload)
	}

	s.write(g, out, s.Handle(g.Request.Context(), call))
}

func readBody(g *gin.Context) (interface{}, error) {
	body, err := g.GetRawData()
	if err != nil || len(body) == 0 {
		return nil, err
	}
	var payload interface{}
	if err := codec.ForContentType(g.GetHeader("Content-Type")).Unmarshal(body, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// httpParams maps a request body onto method arguments. A batch create body
// is {"elements": [...]} and the elements are the single argument.
func httpParams(batchCreate bool, payload interface{}) interface{} {
	if payload == nil {
		return nil
	}
	if batchCreate {
		if m, ok := payload.(map[string]interface{}); ok {
			return []interface{}{m["elements"]}
		}
		return []interface{}{payload}
	}
	return payload
}

func (s *Server) write(g *gin.Context, c codec.Codec, resp *response.PartialResponse) {
	for k, v := range resp.Headers() {
		g.Header(k, v)
	}
	for _, cookie := range resp.Cookies() {
		http.SetCookie(g.Writer, cookie)
	}
	data, err := c.Marshal(resp.Entity())
	if err != nil {
		s.logger.Error("response encoding failed", zap.Error(err))
		g.Status(http.StatusInternalServerError)
		return
	}
	g.Data(resp.Status(), c.ContentType(), data)
}

func flattenHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}
