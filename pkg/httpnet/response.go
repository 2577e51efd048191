package httpnet

import (
	"net/http"

	"github.com/denkhaus/tokamak/pkg/httpx"
)

type response struct {
	w         http.ResponseWriter
	status    int
	responded bool
}

// NewResponse wraps w. status defaults to 0, meaning "unset"; if the
// handler never called SetStatus, WriteBody falls back to 200, or to 204
// when the body is empty.
func NewResponse(w http.ResponseWriter) httpx.Response {
	return &response{w: w}
}

func (r *response) SetStatus(code int) {
	r.status = code
}

func (r *response) SetHeader(name, value string) {
	r.w.Header().Set(name, value)
}

func (r *response) WriteBody(ct httpx.ContentType, body []byte) error {
	if r.responded {
		panic("httpnet: response already written")
	}
	r.responded = true

	if _, ok := r.w.Header()["Content-Type"]; !ok {
		r.w.Header().Set("Content-Type", contentTypeHeader(ct))
	}

	status := r.status
	if status == 0 {
		if len(body) == 0 {
			status = http.StatusNoContent
		} else {
			status = http.StatusOK
		}
	}
	r.w.WriteHeader(status)

	if len(body) == 0 {
		return nil
	}
	_, err := r.w.Write(body)
	return err
}

func (r *response) Responded() bool {
	return r.responded
}

func contentTypeHeader(ct httpx.ContentType) string {
	switch ct {
	case httpx.ContentTypeJSON:
		return "application/json; charset=utf-8"
	case httpx.ContentTypeHTML:
		return "text/html; charset=utf-8"
	case httpx.ContentTypeBinary:
		return "application/octet-stream"
	case httpx.ContentTypeText:
		return "text/plain; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}
