package injector

import (
	"fmt"
	"reflect"

	"github.com/denkhaus/tokamak/pkg/typekey"
)

// buildFunc constructs the canonical value for a provider's key: a pointer
// for concrete struct/scalar types, or a boxed interface value for
// interface-kind keys (see canonicalKeyOf/boxAs below). It receives the
// owning Injector level (the level the provider was registered on) so
// Factory/Autowire/Auto providers resolve their own dependencies against
// that level's parent chain, and a stack used to detect resolution cycles
// across the whole call graph.
type buildFunc func(owner *Injector, st *stack) (reflect.Value, error)

// Provider is a tagged variant (spec.md §3 "Provider"): Value, Ref, Factory,
// Initializer, Autowire, or Auto.
type Provider struct {
	Key   typekey.Key
	build buildFunc

	// ifaceKeys holds additional keys injector.New also registers this
	// provider under. No constructor in this package sets it; intrusive
	// interfaces are registered through FieldProvider instead.
	ifaceKeys []typekey.Key
}

// canonicalKeyOf returns the key a provider for T is stored under: T itself
// when T is an interface (interfaces are already reference-shaped; boxing a
// pointer-to-interface is not idiomatic Go and reflect cannot produce an
// interface-kind Value from reflect.ValueOf anyway), otherwise pointer-to-T
// (spec.md §3: "provider stores *T; resolving T dereferences once").
func canonicalKeyOf[T any]() typekey.Key {
	t := typekey.Of[T]()
	if t.Kind() == reflect.Interface {
		return t
	}
	return typekey.Pointer(t)
}

// boxAs builds a reflect.Value of exactly the canonical key type t holding
// v, where v may be the bare value, a pointer to it, or (for an interface
// key) anything implementing it. reflect.ValueOf alone cannot produce this
// for interface keys: it always unwraps to the concrete dynamic type, so
// the only way to obtain a Value whose static Type() is an interface is
// reflect.New(iface).Elem() followed by Set. For pointer keys, v is
// accepted either as the pointee value or as an already-matching pointer.
func boxAs(t reflect.Type, v any) reflect.Value {
	if t.Kind() == reflect.Interface {
		box := reflect.New(t).Elem()
		if v != nil {
			box.Set(reflect.ValueOf(v))
		}
		return box
	}

	elemType := t.Elem()
	rv := reflect.ValueOf(v)
	if rv.IsValid() && rv.Type() == t {
		return rv
	}

	ptr := reflect.New(elemType)
	if rv.IsValid() {
		ptr.Elem().Set(rv)
	}
	return ptr
}

// Value registers a literal instance of T.
func Value[T any](v T) Provider {
	key := canonicalKeyOf[T]()
	boxed := boxAs(key, v)
	return Provider{
		Key: key,
		build: func(*Injector, *stack) (reflect.Value, error) {
			return boxed, nil
		},
	}
}

// Ref registers a non-owning external pointer to T. The Injector never
// frees or otherwise owns ptr; it merely hands the pointer out to
// resolvers (spec.md §4.B "push(refs)" uses exactly this shape for
// request-scoped values).
func Ref[T any](ptr *T) Provider {
	pv := reflect.ValueOf(ptr)
	return Provider{
		Key: typekey.Pointer(typekey.Of[T]()),
		build: func(*Injector, *stack) (reflect.Value, error) {
			return pv, nil
		},
	}
}

// Factory registers a constructor function resolved via Injector.Call at
// build time. fn may return (T), (T, error), (*T) or (*T, error); T may be
// a concrete type or an interface the returned concrete value implements.
func Factory[T any](fn any) Provider {
	fv := reflect.ValueOf(fn)
	ft := fv.Type()
	if ft.Kind() != reflect.Func {
		panic(fmt.Sprintf("injector.Factory[%T]: fn must be a function, got %s", *new(T), ft))
	}
	key := canonicalKeyOf[T]()

	return Provider{
		Key: key,
		build: func(owner *Injector, st *stack) (reflect.Value, error) {
			out, err := owner.callBuild(fv, nil, st)
			if err != nil {
				return reflect.Value{}, err
			}
			return boxAs(key, out), nil
		},
	}
}

// Initializer registers a function that writes into a preallocated slot:
// `func(*T, ...deps) error`. The slot's address becomes the provider's
// canonical value, letting self-referential wiring (a service that needs
// its own eventual pointer, e.g. to register a callback) observe a stable
// address before initialization completes.
func Initializer[T any](fn any) Provider {
	fv := reflect.ValueOf(fn)
	ft := fv.Type()
	if ft.Kind() != reflect.Func || ft.NumIn() < 1 || ft.In(0) != reflect.PointerTo(typekey.Of[T]()) {
		panic(fmt.Sprintf("injector.Initializer[%T]: fn must be func(*T, ...) error", *new(T)))
	}

	return Provider{
		Key: typekey.Pointer(typekey.Of[T]()),
		build: func(owner *Injector, st *stack) (reflect.Value, error) {
			slot := reflect.New(typekey.Of[T]())
			extra := NewExtra(slot.Interface())
			_, err := owner.callBuild(fv, extra, st)
			if err != nil {
				return reflect.Value{}, err
			}
			return slot, nil
		},
	}
}

// Autowire constructs T by resolving each exported field of the struct type
// T from the Injector, the way mwantia-fabric's createFabricTagFactory
// builds a struct by walking its fields — but field-type driven rather than
// struct-tag gated, matching spec.md §3's "resolving each declared field of
// the type".
func Autowire[T any]() Provider {
	return Provider{
		Key: typekey.Pointer(typekey.Of[T]()),
		build: func(owner *Injector, st *stack) (reflect.Value, error) {
			return autowireStruct(owner, typekey.Of[T](), st)
		},
	}
}

// DynamicValue registers v under t's canonical key, for callers that only
// know the provided type via reflect.Type rather than a compile-time
// generic parameter — the router's provide() DSL verb names a factory
// whose return type is only known once that factory is resolved, so a
// generic Value[T] call is not possible there.
func DynamicValue(t reflect.Type, v reflect.Value) Provider {
	key := t
	if key.Kind() != reflect.Interface && key.Kind() != reflect.Pointer {
		key = typekey.Pointer(t)
	}
	var boxVal any
	if v.IsValid() {
		boxVal = v.Interface()
	}
	boxed := boxAs(key, boxVal)
	return Provider{
		Key: key,
		build: func(*Injector, *stack) (reflect.Value, error) {
			return boxed, nil
		},
	}
}

// FieldProvider derives a Provider for fieldType that resolves by building
// ownerKey (a pointer-to-struct key) and extracting the field at
// fieldIndex. Used by Container to auto-expose intrusive interfaces: a
// struct field typed as an interface becomes independently resolvable
// under that interface's own key, aliasing the owning service's instance.
// Unlike Value/Ref/Factory, ownerKey and fieldType are only known via
// reflection here, not as Go generic type parameters, because Container
// discovers intrusive fields by walking already-declared providers.
func FieldProvider(ownerKey, fieldType reflect.Type, fieldIndex int) Provider {
	return Provider{
		Key: fieldType,
		build: func(owner *Injector, st *stack) (reflect.Value, error) {
			ownerVal, err := owner.resolve(ownerKey, st)
			if err != nil {
				return reflect.Value{}, err
			}
			field := ownerVal.Elem().Field(fieldIndex)
			if (field.Kind() == reflect.Interface || field.Kind() == reflect.Pointer) && field.IsNil() {
				return reflect.Value{}, &MissingDependencyError{Type: fieldType, Index: -1}
			}
			return boxAs(fieldType, field.Interface()), nil
		},
	}
}

// Auto prefers a `func (*T) Init(...)` method if T declares one, else falls
// back to Autowire.
func Auto[T any]() Provider {
	t := typekey.Of[T]()
	ptrType := reflect.PointerTo(t)

	if _, ok := ptrType.MethodByName("Init"); ok {
		return Provider{
			Key: typekey.Pointer(t),
			build: func(owner *Injector, st *stack) (reflect.Value, error) {
				inst, err := autowireStruct(owner, t, st)
				if err != nil {
					return reflect.Value{}, err
				}
				if _, err := owner.callMethod(inst, "Init", st); err != nil {
					return reflect.Value{}, err
				}
				return inst, nil
			},
		}
	}

	return Autowire[T]()
}
