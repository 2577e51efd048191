// Package httpnet adapts net/http, carried by a go-chi/chi/v5 mux, onto the
// transport contract pkg/httpx declares. chi is used purely as the outer
// request entrypoint (its own mux and middleware chain); path matching and
// parameter binding are tokamak's own (pkg/route), so chi's URL-param
// extraction is never consulted.
package httpnet

import (
	"io"
	"net/http"

	"github.com/denkhaus/tokamak/pkg/apperr"
	"github.com/denkhaus/tokamak/pkg/httpx"
)

type request struct {
	r          *http.Request
	pathParams map[string]string
}

// NewRequest wraps r, attaching the path parameters pkg/route's matcher
// captured for this request.
func NewRequest(r *http.Request, pathParams map[string]string) httpx.Request {
	return &request{r: r, pathParams: pathParams}
}

func (req *request) Method() httpx.Method {
	return httpx.Method(req.r.Method)
}

func (req *request) Path() string {
	return req.r.URL.Path
}

func (req *request) Query() string {
	return req.r.URL.RawQuery
}

func (req *request) Header(name string) (string, bool) {
	values, ok := req.r.Header[http.CanonicalHeaderKey(name)]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

func (req *request) Body(maxLen int64) ([]byte, error) {
	limited := io.LimitReader(req.r.Body, maxLen+1)
	body, err := io.ReadAll(limited)
	if err != nil {
		return nil, apperr.NewBadBody("failed to read request body", err)
	}
	if int64(len(body)) > maxLen {
		return nil, apperr.NewBodyTooLarge("request body exceeds configured max_body_len")
	}
	return body, nil
}

func (req *request) PathParam(name string) (string, bool) {
	v, ok := req.pathParams[name]
	return v, ok
}

func (req *request) BindPathParams(params map[string]string) {
	req.pathParams = params
}
