package router

import (
	"net/http"

	"github.com/denkhaus/tokamak/pkg/dispatch"
	"github.com/denkhaus/tokamak/pkg/httpx"
)

// Send builds a terminal handler that always returns value verbatim,
// coerced by the usual response rules (spec.md §6 "send(compile_time_value)").
// Useful for static health checks and placeholder routes.
func Send(value any) any {
	return func() any { return value }
}

// Redirect builds a handler that responds with a 302 redirect to url
// (spec.md §6 "redirect(url)").
func Redirect(url string) any {
	return func(ctx *dispatch.Context) error {
		ctx.Response().SetHeader("Location", url)
		ctx.Response().SetStatus(http.StatusFound)
		return ctx.Response().WriteBody(httpx.ContentTypeText, nil)
	}
}
