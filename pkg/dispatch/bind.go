package dispatch

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/denkhaus/tokamak/pkg/apperr"
	"github.com/denkhaus/tokamak/pkg/injector"
	"github.com/denkhaus/tokamak/pkg/route"
)

// bindExtras builds the Extra tuple spec.md §4.G step 4 describes:
// "bind path parameters from the accumulated slots (parsed per declared
// type: bool/int/float/enum/string/optional/slice-by-comma)" followed by
// "read the request body ... decode as JSON into that parameter's type"
// for the first struct-shaped parameter, when the route allows a body.
//
// Both are driven off fn's declared parameter types, in declaration
// order: a parameter qualifies as a path parameter if its underlying kind
// is scalar (or a pointer/slice of one), consuming captures front to
// back; the first remaining struct (or pointer-to-struct) parameter, if
// any, is the body parameter.
func bindExtras(fn reflect.Value, captures []route.Capture, rawBody []byte, bodyAllowed bool) (*injector.Extra, error) {
	ft := fn.Type()
	values := make([]any, 0, ft.NumIn())
	capIdx := 0
	boundBody := false

	for i := 0; i < ft.NumIn(); i++ {
		pt := ft.In(i)

		if isPathParamType(pt) {
			if capIdx < len(captures) {
				v, err := parseScalarLike(pt, captures[capIdx].Value)
				if err != nil {
					return nil, apperr.NewBadPathParam(captures[capIdx].Name, err.Error(), err)
				}
				values = append(values, v)
				capIdx++
				continue
			}
			if pt.Kind() == reflect.Pointer {
				values = append(values, reflect.Zero(pt).Interface())
				continue
			}
			return nil, apperr.NewBadPathParam(fmt.Sprintf("argument %d", i), "no path parameter available", nil)
		}

		if bodyAllowed && !boundBody && isBodyParamType(pt) {
			boundBody = true
			if len(rawBody) == 0 {
				return nil, apperr.NewBadBody("request body is empty", nil)
			}
			target := pt
			if target.Kind() == reflect.Pointer {
				target = target.Elem()
			}
			ptr := reflect.New(target)
			if err := json.Unmarshal(rawBody, ptr.Interface()); err != nil {
				return nil, apperr.NewBadBody("failed to decode request body", err)
			}
			if pt.Kind() == reflect.Pointer {
				values = append(values, ptr.Interface())
			} else {
				values = append(values, ptr.Elem().Interface())
			}
			continue
		}
	}

	return injector.NewExtra(values...), nil
}

func isScalarKind(k reflect.Kind) bool {
	switch k {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
		reflect.String:
		return true
	default:
		return false
	}
}

// isPathParamType reports whether pt is bindable directly from a
// :name path segment: a scalar, a pointer to one (optional), or a slice
// of one (comma-separated).
func isPathParamType(pt reflect.Type) bool {
	switch pt.Kind() {
	case reflect.Pointer:
		return isScalarKind(pt.Elem().Kind())
	case reflect.Slice:
		return isScalarKind(pt.Elem().Kind())
	default:
		return isScalarKind(pt.Kind())
	}
}

var contextType = reflect.TypeOf((*Context)(nil))

// isBodyParamType reports whether pt is a plausible body-decode target: a
// struct or pointer-to-struct that isn't the framework's own *Context,
// which every terminal handler is free to declare and which must resolve
// from the scoped injector instead of the request body.
func isBodyParamType(pt reflect.Type) bool {
	if pt == contextType {
		return false
	}
	if pt.Kind() == reflect.Pointer {
		return pt.Elem().Kind() == reflect.Struct
	}
	return pt.Kind() == reflect.Struct
}

// parseScalarLike parses raw into pt, which must satisfy isPathParamType.
func parseScalarLike(pt reflect.Type, raw string) (any, error) {
	switch pt.Kind() {
	case reflect.Pointer:
		inner, err := parseScalar(pt.Elem(), raw)
		if err != nil {
			return nil, err
		}
		ptr := reflect.New(pt.Elem())
		ptr.Elem().Set(reflect.ValueOf(inner).Convert(pt.Elem()))
		return ptr.Interface(), nil
	case reflect.Slice:
		parts := strings.Split(raw, ",")
		slice := reflect.MakeSlice(pt, len(parts), len(parts))
		for i, part := range parts {
			v, err := parseScalar(pt.Elem(), part)
			if err != nil {
				return nil, err
			}
			slice.Index(i).Set(reflect.ValueOf(v).Convert(pt.Elem()))
		}
		return slice.Interface(), nil
	default:
		v, err := parseScalar(pt, raw)
		if err != nil {
			return nil, err
		}
		return reflect.ValueOf(v).Convert(pt).Interface(), nil
	}
}

func parseScalar(t reflect.Type, raw string) (any, error) {
	switch t.Kind() {
	case reflect.Bool:
		return strconv.ParseBool(raw)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.ParseInt(raw, 10, 64)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.ParseUint(raw, 10, 64)
	case reflect.Float32, reflect.Float64:
		return strconv.ParseFloat(raw, 64)
	case reflect.String:
		return raw, nil
	default:
		return nil, fmt.Errorf("unsupported path parameter type %s", t)
	}
}
