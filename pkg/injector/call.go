package injector

import (
	"errors"
	"reflect"
)

var errType = reflect.TypeOf((*error)(nil)).Elem()

// Call is the primitive spec.md §4.B describes: "for each declared
// parameter of fn: first try to bind from extra ..., then from this
// Injector. If every parameter resolves, invoke fn and return its result.
// Otherwise MissingDependency{param_index, T}."
//
// fn's return shape follows Go convention: (), (T), (error) and (T, error)
// are accepted. Any other shape (two non-error results, an error that isn't
// in trailing position, three or more results) is a programmer error
// (panic).
func (i *Injector) Call(fn any, extra *Extra) (any, error) {
	fv := reflect.ValueOf(fn)
	results, err := i.doCall(fv, extra, newStack())
	if err != nil {
		return nil, err
	}
	return coerceSingle(fv.Type(), results)
}

// callBuild is the internal variant used by Factory/Initializer/Auto
// providers: it shares the caller's cycle-detection stack so a provider's
// own dependency resolution participates in the same cycle check as the
// provider being built.
func (i *Injector) callBuild(fv reflect.Value, extra *Extra, st *stack) (any, error) {
	results, err := i.doCall(fv, extra, st)
	if err != nil {
		return nil, err
	}
	return coerceSingle(fv.Type(), results)
}

func (i *Injector) doCall(fv reflect.Value, extra *Extra, st *stack) ([]reflect.Value, error) {
	ft := fv.Type()
	if ft.Kind() != reflect.Func {
		panic("injector: Call target must be a function")
	}

	args := make([]reflect.Value, ft.NumIn())
	for idx := 0; idx < ft.NumIn(); idx++ {
		pt := ft.In(idx)

		if v, ok := extra.take(pt); ok {
			args[idx] = v
			continue
		}

		v, err := i.resolve(pt, st)
		if err != nil {
			var missing *MissingDependencyError
			if errors.As(err, &missing) {
				return nil, &MissingDependencyError{Type: pt, Index: idx}
			}
			return nil, err
		}
		args[idx] = v
	}

	return fv.Call(args), nil
}

// coerceSingle applies the (T) / (T, error) / (error) / () return
// conventions shared by Factory/Initializer providers, Bundle hooks, and
// terminal handler dispatch.
func coerceSingle(ft reflect.Type, results []reflect.Value) (any, error) {
	switch len(results) {
	case 0:
		return nil, nil
	case 1:
		if ft.Out(0) == errType {
			if results[0].IsNil() {
				return nil, nil
			}
			return nil, results[0].Interface().(error)
		}
		return results[0].Interface(), nil
	default:
		if len(results) != 2 || ft.Out(1) != errType {
			panic("injector: function must return (), (T), (error) or (T, error)")
		}
		if !results[1].IsNil() {
			return results[0].Interface(), results[1].Interface().(error)
		}
		return results[0].Interface(), nil
	}
}
