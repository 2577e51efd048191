// Package apperr implements the tokamak error taxonomy (spec.md §7) and its
// default HTTP status mapping and JSON funnel body. Grounded on
// pkg/shared's AppError pattern (a typed, wrappable error carrying a stable
// code and optional cause), narrowed to the specific kinds the core and
// dispatcher raise.
package apperr

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/denkhaus/tokamak/pkg/injector"
)

// Kind names one of the taxonomy's error categories (spec.md §7). The
// string value doubles as the funnel response's "error" field, so kinds are
// named exactly as the spec names them.
type Kind string

const (
	KindMissingDependency Kind = "MissingDependency"
	KindCycleDetected     Kind = "CycleDetected"
	KindRouteNotMatched   Kind = "RouteNotMatched"
	KindBadBody           Kind = "BadBody"
	KindBadPathParam      Kind = "BadPathParam"
	KindUnauthorized      Kind = "Unauthorized"
	KindForbidden         Kind = "Forbidden"
	KindNotFound          Kind = "NotFound"
	KindBadRequest        Kind = "BadRequest"
	KindConflict          Kind = "Conflict"
	KindHandlerError      Kind = "HandlerError"
	KindTransportError    Kind = "TransportError"
)

// defaultStatus maps every kind to its default HTTP status (spec.md §7).
// An application may override this mapping entirely by installing an
// ErrorHandler through pkg/dispatch's Config.
var defaultStatus = map[Kind]int{
	KindMissingDependency: 500,
	KindCycleDetected:     500,
	KindRouteNotMatched:   404,
	KindBadBody:           400,
	KindBadPathParam:      400,
	KindUnauthorized:      401,
	KindForbidden:         403,
	KindNotFound:          404,
	KindBadRequest:        400,
	KindConflict:          409,
	KindHandlerError:      500,
	KindTransportError:    500,
}

// Error is a structured, wrappable error carrying a taxonomy Kind.
type Error struct {
	Kind    Kind
	Message string
	Cause   error

	// status overrides defaultStatus[Kind] when non-zero. Most Errors leave
	// this unset; it exists for cases like an oversized body where the kind
	// stays BadBody but the mandated status diverges from BadBody's usual
	// 400 (spec.md §7: "Body length exceeding max_body_len: BadBody with
	// status 413").
	status int
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Status returns e's HTTP status: the per-instance override if one was set,
// otherwise the kind's default.
func (e *Error) Status() int {
	if e.status != 0 {
		return e.status
	}
	if s, ok := defaultStatus[e.Kind]; ok {
		return s
	}
	return 500
}

// WithStatus overrides the status e.Status() reports, leaving Kind (and so
// the funnel body's "error" field) unchanged. Returns e for chaining.
func (e *Error) WithStatus(status int) *Error {
	e.status = status
	return e
}

// New builds an Error of the given kind.
func New(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func NewBadBody(message string, cause error) *Error {
	return New(KindBadBody, message, cause)
}

// NewBodyTooLarge is a BadBody error for a request body exceeding
// max_body_len, carrying the 413 status spec.md §7 mandates for that case
// specifically, instead of BadBody's usual 400.
func NewBodyTooLarge(message string) *Error {
	return NewBadBody(message, nil).WithStatus(413)
}

func NewBadPathParam(paramName, message string, cause error) *Error {
	return New(KindBadPathParam, fmt.Sprintf("%s: %s", paramName, message), cause)
}

func NewRouteNotMatched(path string) *Error {
	return New(KindRouteNotMatched, "no route matched "+path, nil)
}

func NewUnauthorized(message string) *Error { return New(KindUnauthorized, message, nil) }
func NewForbidden(message string) *Error    { return New(KindForbidden, message, nil) }
func NewNotFound(message string) *Error     { return New(KindNotFound, message, nil) }
func NewBadRequest(message string) *Error   { return New(KindBadRequest, message, nil) }
func NewConflict(message string) *Error     { return New(KindConflict, message, nil) }

// NewHandlerError wraps any other error a handler returned (spec.md §7
// "HandlerError — any other error returned by a handler; default mapping
// 500").
func NewHandlerError(cause error) *Error {
	return New(KindHandlerError, "handler returned an error", cause)
}

// NewTransportError wraps a failure writing to the response. pkg/dispatch
// does not construct it: a failed body write is returned unwrapped, and
// since the response already counts as responded, nothing further is
// written to the client for it.
func NewTransportError(cause error) *Error {
	return New(KindTransportError, "failed to write response", cause)
}

// FromInjectorError maps the injector package's build-time errors onto the
// taxonomy so they flow through the same funnel as every other error.
func FromInjectorError(err error) *Error {
	var missing *injector.MissingDependencyError
	if errors.As(err, &missing) {
		return New(KindMissingDependency, missing.Error(), err)
	}
	var cycle *injector.CycleDetectedError
	if errors.As(err, &cycle) {
		return New(KindCycleDetected, cycle.Error(), err)
	}
	return NewHandlerError(err)
}

// AsError unwraps err down to an *Error if it is (or wraps) one, falling
// back to a generic HandlerError otherwise so every error reaching the
// funnel has a Status() and a stable name.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return NewHandlerError(err)
}

// funnelBody is the JSON shape spec.md §7 mandates: `{ "error": "<name>" }`,
// extended with a request_id (supplemented feature, propagated per request
// via pkg/dispatch) when one is available.
type funnelBody struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// Body renders the funnel's JSON response body for err.
func Body(err error, requestID string) []byte {
	e := AsError(err)
	out, marshalErr := json.Marshal(funnelBody{Error: string(e.Kind), RequestID: requestID})
	if marshalErr != nil {
		return []byte(`{"error":"HandlerError"}`)
	}
	return out
}
