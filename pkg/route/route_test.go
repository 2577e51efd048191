package route_test

import (
	"testing"

	"github.com/denkhaus/tokamak/pkg/httpx"
	"github.com/denkhaus/tokamak/pkg/route"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePathPatternRejectsDuplicateParamNames(t *testing.T) {
	_, err := route.ParsePathPattern("/users/:id/posts/:id")
	assert.Error(t, err)
}

func TestParsePathPatternRejectsTooManyParams(t *testing.T) {
	path := "/"
	for i := 0; i < 17; i++ {
		path += ":p" + string(rune('a'+i)) + "/"
	}
	_, err := route.ParsePathPattern(path)
	assert.Error(t, err)
}

func TestParsePathPatternRejectsMidPatternWildcard(t *testing.T) {
	_, err := route.ParsePathPattern("/files/*/edit")
	assert.Error(t, err)
}

func TestMatchLiteralRoute(t *testing.T) {
	root := route.New(
		route.Route(httpx.GET, "/health", func() string { return "ok" }),
	)

	chain, ok := route.Match(root, httpx.GET, "/health")
	require.True(t, ok)
	assert.NotNil(t, chain.Terminal)
	assert.Empty(t, chain.Params)
}

func TestMatchFailsOnWrongMethod(t *testing.T) {
	root := route.New(
		route.Route(httpx.GET, "/health", func() string { return "ok" }),
	)

	_, ok := route.Match(root, httpx.POST, "/health")
	assert.False(t, ok)
}

func TestMatchCapturesNamedParamsInOrder(t *testing.T) {
	root := route.New(
		route.Route(httpx.GET, "/users/:userID/posts/:postID", func() string { return "post" }),
	)

	chain, ok := route.Match(root, httpx.GET, "/users/42/posts/7")
	require.True(t, ok)
	require.Len(t, chain.Params, 2)
	assert.Equal(t, route.Capture{Name: "userID", Value: "42"}, chain.Params[0])
	assert.Equal(t, route.Capture{Name: "postID", Value: "7"}, chain.Params[1])
}

func TestMatchTrailingWildcardConsumesRemainder(t *testing.T) {
	root := route.New(
		route.Route(httpx.GET, "/static/*", func() string { return "asset" }),
	)

	chain, ok := route.Match(root, httpx.GET, "/static/css/app.css")
	require.True(t, ok)
	assert.Empty(t, chain.Params)
	_ = chain
}

func TestMatchWildcardConsumesEmptyRemainder(t *testing.T) {
	root := route.New(
		route.Route(httpx.GET, "/static/*", func() string { return "asset" }),
	)

	_, ok := route.Match(root, httpx.GET, "/static")
	assert.True(t, ok)
}

func TestGroupStripsPrefixForChildren(t *testing.T) {
	root := route.New(
		route.Group("/api",
			route.Route(httpx.GET, "/users/:id", func() string { return "user" }),
		),
	)

	chain, ok := route.Match(root, httpx.GET, "/api/users/9")
	require.True(t, ok)
	require.Len(t, chain.Params, 1)
	assert.Equal(t, "9", chain.Params[0].Value)
}

func TestGroupPrefixRestoredForSiblingSubtree(t *testing.T) {
	root := route.New(
		route.Group("/api",
			route.Route(httpx.GET, "/users", func() string { return "users" }),
		),
		route.Route(httpx.GET, "/api", func() string { return "apiRoot" }),
	)

	chain, ok := route.Match(root, httpx.GET, "/api")
	require.True(t, ok)
	assert.NotNil(t, chain.Terminal)
}

func TestMatchUsesDeclarationOrder(t *testing.T) {
	first := route.Route(httpx.GET, "/:slug", func() string { return "first" })
	second := route.Route(httpx.GET, "/:slug", func() string { return "second" })
	root := route.New(first, second)

	chain, ok := route.Match(root, httpx.GET, "/hello")
	require.True(t, ok)
	assert.Same(t, first.Handler, chain.Terminal)
}

func TestMatchCollectsMiddlewareOnPathToTerminal(t *testing.T) {
	auth := func() {}
	logging := func() {}
	root := route.Middleware(logging,
		route.Middleware(auth,
			route.Route(httpx.GET, "/secret", func() string { return "shh" }),
		),
	)

	chain, ok := route.Match(root, httpx.GET, "/secret")
	require.True(t, ok)
	require.Len(t, chain.Middlewares, 2)
}

func TestMatchNoMatchReturnsFalse(t *testing.T) {
	root := route.New(
		route.Route(httpx.GET, "/health", func() string { return "ok" }),
	)
	_, ok := route.Match(root, httpx.GET, "/missing")
	assert.False(t, ok)
}
