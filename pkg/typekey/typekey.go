// Package typekey assigns a stable identity to every Go type used as a
// dependency-injection key (spec.md §3 "TypeKey", §4.A "Type Identity").
//
// The identity is reflect.Type itself — Go already gives every type a
// canonical, comparable runtime descriptor, so typekey's job is purely the
// normalization rules spec.md §3 requires: T and *T must resolve from the
// same provider slot, dereferencing a pointer provider when a by-value type
// is requested. Modeled on mwantia-fabric's container/helpers.go
// (`typeKey[T]() reflect.Type`), generalized to carry the pointer/value
// unification tokamak's Injector needs that fabric's container does not.
package typekey

import "reflect"

// Key is the stable identity of a type in an Injector's provider table.
type Key = reflect.Type

// Of returns the Key for the generic type parameter T.
func Of[T any]() Key {
	var zero T
	t := reflect.TypeOf(&zero).Elem()
	return t
}

// OfValue returns the Key for the runtime type of v. Unlike Of, this works
// on values obtained via reflection (e.g. a struct field) where no type
// parameter is available at the call site.
func OfValue(v any) Key {
	return reflect.TypeOf(v)
}

// Normalize returns k unchanged: reflect.Type values are already canonical
// and comparable. Pointer types are not collapsed to their pointee's key
// here (pointee and pointer are distinct keys; see Pointer/Elem below).
func Normalize(k Key) Key {
	return k
}

// Pointer returns the Key for *T given the Key for T.
func Pointer(k Key) Key {
	return reflect.PointerTo(k)
}

// Elem returns the Key for T given the Key for *T. Panics if k is not a
// pointer kind; callers (the Injector's resolution path) only invoke this
// after checking k.Kind() == reflect.Pointer.
func Elem(k Key) Key {
	return k.Elem()
}

// IsPointer reports whether k identifies a pointer type.
func IsPointer(k Key) bool {
	return k.Kind() == reflect.Pointer
}
