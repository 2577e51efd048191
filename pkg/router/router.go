// Package router implements Component F (spec.md §4.F): a compile-time
// DSL for building a route.Node tree, in two shapes — a declarative list
// of chained builder calls, and type-derived routes read off a type's
// MethodRoutes mapping (FromType). Both compile down to the same route.Node
// tree pkg/dispatch walks at request time.
package router

import (
	"github.com/denkhaus/tokamak/pkg/httpx"
	"github.com/denkhaus/tokamak/pkg/route"
)

// Builder accumulates children for one route.Node level, in the order
// its methods are called — declaration order, which is also matching
// order (spec.md §4.E "matching order within a children list is textual").
type Builder struct {
	children []*route.Node
}

// New starts a fresh builder for one level of the tree (typically the
// root).
func New() *Builder {
	return &Builder{}
}

// Build finalizes the accumulated children into a wrapper node with no
// matcher of its own.
func (b *Builder) Build() *route.Node {
	return route.New(b.children...)
}

func (b *Builder) add(n *route.Node) *Builder {
	b.children = append(b.children, n)
	return b
}

// Get declares a terminal GET route at path.
func (b *Builder) Get(path string, handler any) *Builder {
	return b.add(route.Route(httpx.GET, path, handler))
}

// Post declares a terminal POST route whose body is read and decoded
// into the handler's body parameter, if it has one.
func (b *Builder) Post(path string, handler any) *Builder {
	return b.add(route.Route(httpx.POST, path, handler))
}

// Post0 declares a POST route that skips body parsing entirely.
func (b *Builder) Post0(path string, handler any) *Builder {
	return b.add(route.RouteNoBody(httpx.POST, path, handler, true))
}

// Put declares a terminal PUT route with body parsing.
func (b *Builder) Put(path string, handler any) *Builder {
	return b.add(route.Route(httpx.PUT, path, handler))
}

// Put0 declares a PUT route that skips body parsing.
func (b *Builder) Put0(path string, handler any) *Builder {
	return b.add(route.RouteNoBody(httpx.PUT, path, handler, true))
}

// Patch declares a terminal PATCH route with body parsing.
func (b *Builder) Patch(path string, handler any) *Builder {
	return b.add(route.Route(httpx.PATCH, path, handler))
}

// Patch0 declares a PATCH route that skips body parsing.
func (b *Builder) Patch0(path string, handler any) *Builder {
	return b.add(route.RouteNoBody(httpx.PATCH, path, handler, true))
}

// Delete declares a terminal DELETE route.
func (b *Builder) Delete(path string, handler any) *Builder {
	return b.add(route.Route(httpx.DELETE, path, handler))
}

// Head declares a terminal HEAD route.
func (b *Builder) Head(path string, handler any) *Builder {
	return b.add(route.Route(httpx.HEAD, path, handler))
}

// Options declares a terminal OPTIONS route.
func (b *Builder) Options(path string, handler any) *Builder {
	return b.add(route.Route(httpx.OPTIONS, path, handler))
}

// Group nests a sub-builder's routes under prefix, which is stripped from
// the request path before any of them are matched.
func (b *Builder) Group(prefix string, fn func(*Builder)) *Builder {
	sub := New()
	fn(sub)
	return b.add(route.Group(prefix, sub.children...))
}

// Provide installs a node that resolves factory via the scoped injector
// and pushes its result for the remainder of the subtree fn declares.
func (b *Builder) Provide(factory any, fn func(*Builder)) *Builder {
	sub := New()
	fn(sub)
	return b.add(route.Provide(factory, sub.children...))
}

// Handler installs a bare middleware node: it runs for every request that
// reaches it and must call ctx.Next or respond itself.
func (b *Builder) Handler(middleware any, fn func(*Builder)) *Builder {
	sub := New()
	fn(sub)
	return b.add(route.Middleware(middleware, sub.children...))
}

// Mount appends an already-built node as a child, letting callers splice
// a type-derived subtree (FromType) into a declarative one.
func (b *Builder) Mount(n *route.Node) *Builder {
	return b.add(n)
}
