package injector

import "reflect"

// Extra is the "small typed tuple of request-scoped injections" spec.md
// §4.B's Call resolution algorithm binds parameters from before falling back
// to the Injector's registry. Values are consumed in declaration order: the
// first unused value assignable to a parameter's type wins, which is what
// gives tokamak the spec-mandated behavior that "multiple path parameters of
// the same scalar type are consumed in declaration order" (spec.md §4.B.2).
type Extra struct {
	values []reflect.Value
	used   []bool
}

// NewExtra builds an Extra tuple from concrete Go values, in order.
func NewExtra(values ...any) *Extra {
	e := &Extra{
		values: make([]reflect.Value, len(values)),
		used:   make([]bool, len(values)),
	}
	for i, v := range values {
		e.values[i] = reflect.ValueOf(v)
	}
	return e
}

// NewExtraValues builds an Extra tuple from already-reflected values, used
// internally when a caller has reflect.Value in hand (e.g. a pushed scope).
func NewExtraValues(values ...reflect.Value) *Extra {
	return &Extra{
		values: values,
		used:   make([]bool, len(values)),
	}
}

// take returns the first unused value assignable to t, marking it used.
func (e *Extra) take(t reflect.Type) (reflect.Value, bool) {
	if e == nil {
		return reflect.Value{}, false
	}
	for i, v := range e.values {
		if e.used[i] {
			continue
		}
		if !v.IsValid() {
			continue
		}
		if v.Type() == t || v.Type().AssignableTo(t) {
			e.used[i] = true
			return v, true
		}
	}
	return reflect.Value{}, false
}

// Merge returns a new Extra containing this tuple's still-unused values
// followed by other's still-unused values, preserving each side's internal
// order.
func (e *Extra) Merge(other *Extra) *Extra {
	var values []reflect.Value
	if e != nil {
		for i, v := range e.values {
			if !e.used[i] {
				values = append(values, v)
			}
		}
	}
	if other != nil {
		for i, v := range other.values {
			if !other.used[i] {
				values = append(values, v)
			}
		}
	}
	return NewExtraValues(values...)
}
