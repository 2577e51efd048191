package route

import "github.com/denkhaus/tokamak/pkg/httpx"

// HandlerKind classifies what a Node does once matched (spec.md §4.E
// "Handler kinds: none (pure wrapper/group), middleware (receives Context,
// must call next or respond), terminal (invoked via Injector.Call)").
type HandlerKind int

const (
	HandlerNone HandlerKind = iota
	HandlerMiddleware
	HandlerTerminal
	// HandlerProvide marks a node installed by the router's provide() DSL
	// verb: Fn is a factory resolved via Injector.Call, whose result is
	// pushed onto the request-scoped injector for the remainder of the
	// subtree beneath this node (spec.md §4.F "provide(factory, children)
	// installs middleware calling factory via Injector, pushes result to
	// scoped Injector, descends").
	HandlerProvide
)

// Handler pairs a HandlerKind with the underlying function value. Fn's
// actual signature is left to pkg/dispatch to interpret: middleware
// functions take a *Context and call next, terminal functions are resolved
// and invoked by Injector.Call against the request-scoped injector.
type Handler struct {
	Kind HandlerKind
	Fn   any
	// NoBody, set only on HandlerTerminal nodes for body-bearing methods
	// (POST/PUT/PATCH), skips request body reading entirely (router's
	// post0/put0/patch0 DSL verbs — spec.md §4.F "postN variants skip body
	// parsing").
	NoBody bool
}

// Node is one entry in the route tree (spec.md §3 Route: "{ method?,
// path?, handler?, children }"). The four Matcher states the spec
// describes (none/wrapper, method-and-path, path-only-group,
// method-only) fall out of which of Method/Path are nil, rather than
// being a separate enum.
type Node struct {
	Method   *httpx.Method
	Path     *PathPattern
	Handler  *Handler
	Children []*Node
}

// New builds a wrapper node (no matcher of its own, descends
// unconditionally) wrapping the given children in declaration order.
func New(children ...*Node) *Node {
	return &Node{Children: children}
}

// Group builds a path-only node: it strips prefix from the path before
// descending into children, and carries no handler of its own.
func Group(prefix string, children ...*Node) *Node {
	return &Node{Path: MustParsePathPattern(prefix), Children: children}
}

// Middleware builds a node with no matcher (runs for every request that
// reaches it) whose handler must call next or respond itself.
func Middleware(fn any, children ...*Node) *Node {
	return &Node{Handler: &Handler{Kind: HandlerMiddleware, Fn: fn}, Children: children}
}

// Provide builds a node that resolves factory via Injector.Call and pushes
// its result onto the request-scoped injector before descending into
// children, so every terminal and middleware beneath it can depend on
// whatever factory returns.
func Provide(factory any, children ...*Node) *Node {
	return &Node{Handler: &Handler{Kind: HandlerProvide, Fn: factory}, Children: children}
}

// Route builds a method-and-path terminal node invoked via Injector.Call.
func Route(method httpx.Method, pattern string, fn any) *Node {
	return RouteNoBody(method, pattern, fn, false)
}

// RouteNoBody builds a terminal node like Route, explicitly controlling
// whether the dispatcher reads and decodes the request body.
func RouteNoBody(method httpx.Method, pattern string, fn any, noBody bool) *Node {
	m := method
	return &Node{
		Method:  &m,
		Path:    MustParsePathPattern(pattern),
		Handler: &Handler{Kind: HandlerTerminal, Fn: fn, NoBody: noBody},
	}
}

// MethodOnly builds a node matching any path but only the given method,
// with no handler of its own (used to scope a subtree to one method).
func MethodOnly(method httpx.Method, children ...*Node) *Node {
	m := method
	return &Node{Method: &m, Children: children}
}

func (n *Node) isTerminal() bool {
	return n.Handler != nil && n.Handler.Kind == HandlerTerminal
}

func (n *Node) isMiddlewareLike() bool {
	return n.Handler != nil && (n.Handler.Kind == HandlerMiddleware || n.Handler.Kind == HandlerProvide)
}
