package dispatch_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/denkhaus/tokamak/pkg/apperr"
	"github.com/denkhaus/tokamak/pkg/dispatch"
	"github.com/denkhaus/tokamak/pkg/httpnet"
	"github.com/denkhaus/tokamak/pkg/injector"
	"github.com/denkhaus/tokamak/pkg/route"
	"github.com/denkhaus/tokamak/pkg/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func call(d *dispatch.Dispatcher, method, path, body string) *httptest.ResponseRecorder {
	var httpReq *http.Request
	if body != "" {
		httpReq = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		httpReq = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	d.Handle(httpnet.NewRequest(httpReq, nil), httpnet.NewResponse(rec))
	return rec
}

func newDispatcher(t *testing.T, root *route.Node) *dispatch.Dispatcher {
	t.Helper()
	server := injector.New(nil, nil)
	return dispatch.New(root, server, zap.NewNop(), dispatch.Config{})
}

func TestDispatchWritesStringResultAsPlainText(t *testing.T) {
	root := router.New().Get("/ping", func() string { return "pong" }).Build()
	d := newDispatcher(t, root)

	rec := call(d, http.MethodGet, "/ping", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}

func TestDispatchRouteNotMatchedRendersFunnelBody(t *testing.T) {
	root := router.New().Build()
	d := newDispatcher(t, root)

	rec := call(d, http.MethodGet, "/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), string(apperr.KindRouteNotMatched))
}

func TestDispatchBindsPathParamPositionally(t *testing.T) {
	root := router.New().Get("/users/:id", func(id string) string { return "user:" + id }).Build()
	d := newDispatcher(t, root)

	rec := call(d, http.MethodGet, "/users/42", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user:42", rec.Body.String())
}

func TestDispatchParsesIntegerPathParam(t *testing.T) {
	root := router.New().Get("/items/:id", func(id int) string { return "item" }).Build()
	d := newDispatcher(t, root)

	rec := call(d, http.MethodGet, "/items/7", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDispatchBadPathParamTypeRendersFunnelBody(t *testing.T) {
	root := router.New().Get("/items/:id", func(id int) string { return "item" }).Build()
	d := newDispatcher(t, root)

	rec := call(d, http.MethodGet, "/items/not-a-number", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), string(apperr.KindBadPathParam))
}

type createPayload struct {
	Name string `json:"name"`
}

func TestDispatchDecodesJSONBodyIntoStructParam(t *testing.T) {
	root := router.New().Post("/widgets", func(p createPayload) string { return "created:" + p.Name }).Build()
	d := newDispatcher(t, root)

	b, err := json.Marshal(createPayload{Name: "gadget"})
	require.NoError(t, err)

	rec := call(d, http.MethodPost, "/widgets", string(b))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "created:gadget", rec.Body.String())
}

func TestDispatchEmptyBodyOnBodyRequiringHandlerRendersBadBody(t *testing.T) {
	root := router.New().Post("/widgets", func(p createPayload) string { return "created:" + p.Name }).Build()
	d := newDispatcher(t, root)

	rec := call(d, http.MethodPost, "/widgets", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), string(apperr.KindBadBody))
}

func TestDispatchOversizedBodyRendersBadBodyWith413(t *testing.T) {
	root := router.New().Post("/widgets", func(p createPayload) string { return "created:" + p.Name }).Build()
	server := injector.New(nil, nil)
	d := dispatch.New(root, server, zap.NewNop(), dispatch.Config{MaxBodyLen: 4})

	b, err := json.Marshal(createPayload{Name: "gadget"})
	require.NoError(t, err)

	rec := call(d, http.MethodPost, "/widgets", string(b))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, rec.Body.String(), string(apperr.KindBadBody))
}

func TestDispatchPost0SkipsBodyParsing(t *testing.T) {
	root := router.New().Post0("/events", func() string { return "accepted" }).Build()
	d := newDispatcher(t, root)

	rec := call(d, http.MethodPost, "/events", "{not json at all")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "accepted", rec.Body.String())
}

func TestDispatchMiddlewareCanShortCircuitBeforeTerminal(t *testing.T) {
	reached := false
	deny := func(ctx *dispatch.Context) error {
		ctx.Response().SetStatus(http.StatusForbidden)
		return ctx.Response().WriteBody(0, []byte("nope"))
	}
	root := router.New().
		Handler(deny, func(sub *router.Builder) {
			sub.Get("/secret", func() string { reached = true; return "ok" })
		}).
		Build()
	d := newDispatcher(t, root)

	rec := call(d, http.MethodGet, "/secret", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, reached)
}

func TestDispatchMiddlewareCallingNextReachesTerminal(t *testing.T) {
	pass := func(ctx *dispatch.Context) error { return ctx.Next() }
	root := router.New().
		Handler(pass, func(sub *router.Builder) {
			sub.Get("/secret", func() string { return "ok" })
		}).
		Build()
	d := newDispatcher(t, root)

	rec := call(d, http.MethodGet, "/secret", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

type dbHandle struct{ dsn string }

func TestDispatchProvideNodePushesResultIntoScope(t *testing.T) {
	factory := func() (*dbHandle, error) { return &dbHandle{dsn: "mem://"}, nil }
	root := router.New().
		Provide(factory, func(sub *router.Builder) {
			sub.Get("/rows", func(db *dbHandle) string { return db.dsn })
		}).
		Build()
	d := newDispatcher(t, root)

	rec := call(d, http.MethodGet, "/rows", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "mem://", rec.Body.String())
}

func TestDispatchSendReturnsStaticValue(t *testing.T) {
	root := router.New().Get("/health", router.Send("ok")).Build()
	d := newDispatcher(t, root)

	rec := call(d, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestDispatchRedirectSetsLocationHeader(t *testing.T) {
	root := router.New().Get("/old", router.Redirect("/new")).Build()
	d := newDispatcher(t, root)

	rec := call(d, http.MethodGet, "/old", "")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/new", rec.Header().Get("Location"))
}

func TestDispatchCustomErrorHandlerOverridesDefaultFunnel(t *testing.T) {
	root := router.New().Get("/boom", func() (string, error) {
		return "", apperr.NewConflict("already exists")
	}).Build()

	server := injector.New(nil, nil)
	d := dispatch.New(root, server, zap.NewNop(), dispatch.Config{
		ErrorHandler: func(ctx *dispatch.Context, err error) {
			ctx.Response().SetStatus(http.StatusTeapot)
			_ = ctx.Response().WriteBody(0, []byte("custom"))
		},
	})

	rec := call(d, http.MethodGet, "/boom", "")
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "custom", rec.Body.String())
}
