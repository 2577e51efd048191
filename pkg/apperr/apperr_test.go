package apperr_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/denkhaus/tokamak/pkg/apperr"
	"github.com/denkhaus/tokamak/pkg/injector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusMapping(t *testing.T) {
	cases := map[*apperr.Error]int{
		apperr.NewBadBody("x", nil):         400,
		apperr.NewBadPathParam("id", "x", nil): 400,
		apperr.NewRouteNotMatched("/x"):     404,
		apperr.NewUnauthorized("x"):         401,
		apperr.NewForbidden("x"):            403,
		apperr.NewNotFound("x"):             404,
		apperr.NewBadRequest("x"):           400,
		apperr.NewConflict("x"):             409,
		apperr.NewHandlerError(errors.New("boom")): 500,
		apperr.NewTransportError(errors.New("boom")): 500,
	}
	for err, want := range cases {
		assert.Equal(t, want, err.Status(), err.Kind)
	}
}

func TestBodyTooLargeOverridesStatusButKeepsBadBodyKind(t *testing.T) {
	err := apperr.NewBodyTooLarge("too big")
	assert.Equal(t, apperr.KindBadBody, err.Kind)
	assert.Equal(t, 413, err.Status())
}

func TestFromInjectorErrorMapsMissingDependency(t *testing.T) {
	src := &injector.MissingDependencyError{Index: -1}
	e := apperr.FromInjectorError(src)
	assert.Equal(t, apperr.KindMissingDependency, e.Kind)
	assert.Equal(t, 500, e.Status())
}

func TestFromInjectorErrorMapsCycleDetected(t *testing.T) {
	src := &injector.CycleDetectedError{}
	e := apperr.FromInjectorError(src)
	assert.Equal(t, apperr.KindCycleDetected, e.Kind)
}

func TestAsErrorUnwrapsWrappedError(t *testing.T) {
	base := apperr.NewNotFound("missing")
	wrapped := fmt.Errorf("outer: %w", base)
	plain := errors.New("outer: " + base.Error())

	// a genuinely wrapped *Error unwraps to the original
	asErr := apperr.AsError(wrapped)
	assert.Same(t, base, asErr)

	// a plain error becomes a generic HandlerError
	generic := apperr.AsError(plain)
	assert.Equal(t, apperr.KindHandlerError, generic.Kind)
}

func TestBodyIncludesRequestID(t *testing.T) {
	body := apperr.Body(apperr.NewBadRequest("nope"), "req-123")

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "BadRequest", decoded["error"])
	assert.Equal(t, "req-123", decoded["request_id"])
}

func TestBodyOmitsEmptyRequestID(t *testing.T) {
	body := apperr.Body(apperr.NewBadRequest("nope"), "")
	assert.NotContains(t, string(body), "request_id")
}
