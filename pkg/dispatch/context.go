// Package dispatch implements Component G (spec.md §4.G): Context, the
// per-request carrier threading a fresh arena, the ambient Request and
// Response, and a request-scoped Injector through a declaration-ordered
// middleware walk; and Dispatcher, the per-request lifecycle that matches
// a route tree, binds parameters, and invokes the matched handler.
package dispatch

import (
	"reflect"

	"github.com/denkhaus/tokamak/pkg/apperr"
	"github.com/denkhaus/tokamak/pkg/arena"
	"github.com/denkhaus/tokamak/pkg/httpx"
	"github.com/denkhaus/tokamak/pkg/injector"
	"github.com/denkhaus/tokamak/pkg/route"
)

// Context is owned by exactly one request thread (spec.md §5 "a single
// Context is owned by one request thread; its scoped Injector's storage
// is request-local"). It is never safe to share across goroutines.
type Context struct {
	arena   *arena.Arena
	req     httpx.Request
	resp    httpx.Response
	scoped  *injector.Injector
	pending []*route.Handler
	params  []route.Capture
	terminal *route.Handler
	bodyAllowed bool
	rawBody     []byte
	bodyRead    bool
	maxBodyLen  int64
}

// Request returns the ambient request for this Context.
func (c *Context) Request() httpx.Request { return c.req }

// Response returns the ambient response for this Context.
func (c *Context) Response() httpx.Response { return c.resp }

// Allocator returns the request-scoped byte allocator.
func (c *Context) Allocator() arena.Allocator { return c.arena }

// Injector returns the current scoped Injector, reflecting every
// nextScoped push made so far on the path to this point in the walk.
func (c *Context) Injector() *injector.Injector { return c.scoped }

// Responded reports whether a response has already been written.
func (c *Context) Responded() bool { return c.resp.Responded() }

// Next pops the next node off the pending stack. Provide nodes resolve
// their factory, push the result for the remainder of the walk, and
// auto-descend without handing control back to a caller (spec.md §4.F
// "installs middleware ... pushes result to scoped Injector, descends").
// Middleware nodes are invoked and must themselves call Next to continue,
// or write a response to stop the walk. Once pending is empty, the
// matched terminal handler is invoked.
func (c *Context) Next() error {
	for len(c.pending) > 0 {
		h := c.pending[0]
		c.pending = c.pending[1:]

		switch h.Kind {
		case route.HandlerProvide:
			if err := c.runProvide(h.Fn); err != nil {
				return err
			}
			continue
		case route.HandlerMiddleware:
			_, err := c.scoped.Call(h.Fn, nil)
			return err
		}
	}

	return c.invokeTerminal()
}

// NextScoped pushes providers onto the current scope for the remainder of
// the walk (spec.md §4.G "nextScoped(refs) pushes refs for the remainder
// of the walk"), then continues exactly as Next does.
func (c *Context) NextScoped(providers ...injector.Provider) error {
	c.scoped = c.scoped.Push(providers...)
	return c.Next()
}

func (c *Context) runProvide(factory any) error {
	fv := reflect.ValueOf(factory)
	if fv.Type().NumOut() == 0 {
		return apperr.NewHandlerError(nil)
	}
	outType := fv.Type().Out(0)

	result, err := c.scoped.Call(factory, nil)
	if err != nil {
		return err
	}

	var resultVal reflect.Value
	if result != nil {
		resultVal = reflect.ValueOf(result)
	}
	c.scoped = c.scoped.Push(injector.DynamicValue(outType, resultVal))
	return nil
}

func (c *Context) invokeTerminal() error {
	if c.terminal == nil {
		return apperr.NewRouteNotMatched(c.req.Path())
	}

	fn := reflect.ValueOf(c.terminal.Fn)

	if c.bodyAllowed && !c.terminal.NoBody && !c.bodyRead {
		body, err := c.req.Body(c.maxBodyLen)
		if err != nil {
			return err
		}
		c.rawBody = body
		c.bodyRead = true
	}

	extra, err := bindExtras(fn, c.params, c.rawBody, c.bodyAllowed && !c.terminal.NoBody)
	if err != nil {
		return err
	}

	result, callErr := c.scoped.Call(c.terminal.Fn, extra)
	if callErr != nil {
		return callErr
	}

	return coerceResponse(c.resp, result)
}
