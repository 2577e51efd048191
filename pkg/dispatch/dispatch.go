package dispatch

import (
	"encoding/json"

	"github.com/denkhaus/tokamak/pkg/apperr"
	"github.com/denkhaus/tokamak/pkg/arena"
	"github.com/denkhaus/tokamak/pkg/httpx"
	"github.com/denkhaus/tokamak/pkg/injector"
	"github.com/denkhaus/tokamak/pkg/route"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrorHandler lets an application override the default error-funnel
// rendering; it is installed through Config.ErrorHandler and replaces
// defaultErrorHandler. It receives the Context so it can inspect the
// request and write a custom response; if it returns without writing
// one, the default funnel body still runs underneath it.
type ErrorHandler func(ctx *Context, err error)

// Dispatcher implements the per-request lifecycle of spec.md §4.G: match
// the route tree, bind an arena-backed, injector-scoped Context, walk the
// middleware stack, invoke the terminal handler, and fall any error
// through the apperr funnel.
type Dispatcher struct {
	root         *route.Node
	server       *injector.Injector
	log          *zap.Logger
	maxBodyLen   int64
	errorHandler ErrorHandler
}

// Config carries the Dispatcher's tunables; MaxBodyLen bounds request
// body reads (spec.md §4.G.4.a "bounded by max_len").
type Config struct {
	MaxBodyLen   int64
	ErrorHandler ErrorHandler
}

// New builds a Dispatcher serving root against server, the fully built
// application Injector (typically container.Container.Injector()).
func New(root *route.Node, server *injector.Injector, log *zap.Logger, cfg Config) *Dispatcher {
	maxBodyLen := cfg.MaxBodyLen
	if maxBodyLen <= 0 {
		maxBodyLen = 1 << 20
	}
	errHandler := cfg.ErrorHandler
	if errHandler == nil {
		errHandler = defaultErrorHandler
	}
	return &Dispatcher{root: root, server: server, log: log, maxBodyLen: maxBodyLen, errorHandler: errHandler}
}

// Handle is the httpnet.CoreHandler tokamak mounts behind the transport.
func (d *Dispatcher) Handle(req httpx.Request, resp httpx.Response) {
	requestID := uuid.NewString()
	chain, matched := route.Match(d.root, req.Method(), req.Path())

	var params []route.Capture
	var pending []*route.Handler
	var terminal *route.Handler
	if matched {
		params, pending, terminal = chain.Params, chain.Middlewares, chain.Terminal
		if binder, ok := req.(httpx.PathParamBinder); ok {
			binder.BindPathParams(capturesToMap(params))
		}
	}

	a := arena.New()
	defer a.Release()

	ctx := &Context{
		arena:       a,
		req:         req,
		resp:        resp,
		pending:     pending,
		params:      params,
		terminal:    terminal,
		bodyAllowed: matched && isBodyBearing(req.Method()),
		maxBodyLen:  d.maxBodyLen,
	}
	ctx.scoped = d.server.Push(
		injector.Ref[Context](ctx),
		injector.Value[httpx.Request](req),
		injector.Value[httpx.Response](resp),
		injector.Value[arena.Allocator](a),
		injector.Value[string](requestID),
	)

	var err error
	if !matched {
		err = apperr.NewRouteNotMatched(req.Path())
	} else {
		err = ctx.Next()
	}

	if err == nil {
		return
	}

	d.errorHandler(ctx, err)
	if !resp.Responded() {
		d.fail(req, resp, requestID, err)
	}
}

// fail is the safety net run when neither the terminal handler nor the
// installed ErrorHandler wrote a response: it logs and renders the
// default funnel body so a request never returns with a dangling
// connection.
func (d *Dispatcher) fail(req httpx.Request, resp httpx.Response, requestID string, err error) {
	e := apperr.AsError(err)
	d.log.Warn("request failed",
		zap.String("method", req.Method().String()),
		zap.String("path", req.Path()),
		zap.String("request_id", requestID),
		zap.String("kind", string(e.Kind)),
		zap.Error(e),
	)
	resp.SetStatus(e.Status())
	_ = resp.WriteBody(httpx.ContentTypeJSON, apperr.Body(e, requestID))
}

func defaultErrorHandler(ctx *Context, err error) {
	e := apperr.AsError(err)
	if ctx.Responded() {
		return
	}
	requestID, _ := injector.Find[string](ctx.Injector())
	ctx.Response().SetStatus(e.Status())
	_ = ctx.Response().WriteBody(httpx.ContentTypeJSON, apperr.Body(e, requestID))
}

func capturesToMap(captures []route.Capture) map[string]string {
	out := make(map[string]string, len(captures))
	for _, c := range captures {
		out[c.Name] = c.Value
	}
	return out
}

func isBodyBearing(method httpx.Method) bool {
	switch method {
	case httpx.POST, httpx.PUT, httpx.PATCH:
		return true
	default:
		return false
	}
}

// coerceResponse applies spec.md §4.G.4.d's coercion rules: a handler
// that returned nothing is assumed to have written its own response; a
// string is written as text/plain; anything else is marshaled as JSON.
func coerceResponse(resp httpx.Response, result any) error {
	if resp.Responded() {
		return nil
	}
	if result == nil {
		return nil
	}
	if s, ok := result.(string); ok {
		return resp.WriteBody(httpx.ContentTypeText, []byte(s))
	}
	body, err := json.Marshal(result)
	if err != nil {
		return apperr.NewHandlerError(err)
	}
	return resp.WriteBody(httpx.ContentTypeJSON, body)
}
