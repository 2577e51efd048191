// Package httpx is the transport contract consumed by the tokamak core
// (spec.md §6 "HTTP transport contract"): the Request/Response shapes the
// route tree and dispatcher operate against, independent of any particular
// wire library. pkg/httpnet adapts this contract onto net/http + chi.
package httpx

// Method enumerates the HTTP verbs the route tree matches on (spec.md §6
// "Method: enum {GET, POST, PUT, DELETE, PATCH, HEAD, OPTIONS}").
type Method string

const (
	GET     Method = "GET"
	POST    Method = "POST"
	PUT     Method = "PUT"
	DELETE  Method = "DELETE"
	PATCH   Method = "PATCH"
	HEAD    Method = "HEAD"
	OPTIONS Method = "OPTIONS"
)

func (m Method) String() string { return string(m) }
