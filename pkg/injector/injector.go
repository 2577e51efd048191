// Package injector implements Component B of the tokamak core (spec.md
// §4.B): a hierarchical, type-keyed registry of values and factories, with
// a generic "call any function by resolving each of its parameters from the
// registry" primitive.
//
// Grounded on mwantia-fabric's container package (reflect.Type-keyed
// provider table, lazy singleton construction, LifecycleService hooks) and
// generalized with the push/scope and Call-by-reflection primitives
// spec.md requires that fabric's container does not provide.
package injector

import (
	"reflect"
	"sync"

	"github.com/denkhaus/tokamak/pkg/typekey"
)

type entry struct {
	mu       sync.Mutex
	resolved bool
	val      reflect.Value
	err      error
	provider Provider
}

// Injector is an immutable (after construction) ordered sequence of
// (TypeKey -> Provider) entries plus an optional parent. Resolution walks
// newest level first, then the parent chain (spec.md §3 "Injector").
type Injector struct {
	parent  *Injector
	entries map[typekey.Key]*entry
	order   []typekey.Key // preserves declaration order for iteration
}

// New fixes the provider table at construction. Providers appearing later
// in the slice with a key already seen overwrite the earlier one, which is
// how Bundle composition's override/mock semantics are realized once
// flattened into a single provider list (spec.md §4.D step 1).
func New(providers []Provider, parent *Injector) *Injector {
	inj := &Injector{
		parent:  parent,
		entries: make(map[typekey.Key]*entry, len(providers)),
	}

	for _, p := range providers {
		inj.register(p.Key, p)
		for _, ik := range p.ifaceKeys {
			inj.register(ik, p)
		}
	}

	return inj
}

func (i *Injector) register(key typekey.Key, p Provider) {
	if _, exists := i.entries[key]; !exists {
		i.order = append(i.order, key)
	}
	i.entries[key] = &entry{provider: p}
}

// Push returns a short-lived Injector whose new level contains refs
// (typically built with Value/Ref), parent = self (spec.md §4.B "push").
// Used by middlewares to add request-scoped values without ever mutating
// the parent's table.
func (i *Injector) Push(providers ...Provider) *Injector {
	return New(providers, i)
}

// Keys returns every TypeKey declared at this level, in declaration order
// (not including parent levels). Used by Container to eagerly resolve every
// declared service after build.
func (i *Injector) Keys() []typekey.Key {
	out := make([]typekey.Key, len(i.order))
	copy(out, i.order)
	return out
}

// ResolveKey forces construction of the entry declared under key, the way
// Get[T] does but for a key only known at runtime (reflect.Type), which is
// what Container's eager topological build (spec.md §4.D step 3) needs: it
// walks Keys() and calls ResolveKey on each without ever naming a concrete
// Go type parameter.
func (i *Injector) ResolveKey(key typekey.Key) (reflect.Value, error) {
	return i.resolve(key, newStack())
}

func (i *Injector) lookup(key typekey.Key) (*Injector, *entry) {
	for lvl := i; lvl != nil; lvl = lvl.parent {
		if e, ok := lvl.entries[key]; ok {
			return lvl, e
		}
	}
	return nil, nil
}

// Find returns the nearest provider match for T, walking the parent chain
// on miss, or ok=false if absent (spec.md §4.B "find(T) -> ?Value").
func Find[T any](i *Injector) (T, bool) {
	var zero T
	v, err := i.find(typekey.Of[T]())
	if err != nil || !v.IsValid() {
		return zero, false
	}
	return v.Interface().(T), true
}

// Get is like Find but returns MissingDependencyError on miss (spec.md
// §4.B "get(T) -> Value").
func Get[T any](i *Injector) (T, error) {
	var zero T
	v, err := i.find(typekey.Of[T]())
	if err != nil {
		return zero, err
	}
	typed, ok := v.Interface().(T)
	if !ok {
		return zero, &MissingDependencyError{Type: typekey.Of[T](), Index: -1}
	}
	return typed, nil
}

// MustGet panics if T cannot be resolved. Reserved for application wiring
// code (e.g. cmd/tokamak-demo) where a missing dependency is a programmer
// error, never for request-path code.
func MustGet[T any](i *Injector) T {
	v, err := Get[T](i)
	if err != nil {
		panic(err)
	}
	return v
}

func (i *Injector) find(key typekey.Key) (reflect.Value, error) {
	return i.resolve(key, newStack())
}

// resolve looks up key, building the owning entry at most once and
// detecting cycles via st. Interface and pointer keys are looked up as-is
// and returned as-is; a plain concrete-type key is looked up under its
// pointer form and dereferenced once on return (spec.md §3's "T and *T
// resolve from the same provider" rule — providers always store the
// pointer/interface-boxed form canonically).
func (i *Injector) resolve(key typekey.Key, st *stack) (reflect.Value, error) {
	byRef := key.Kind() == reflect.Interface || key.Kind() == reflect.Pointer
	ck := key
	if !byRef {
		ck = typekey.Pointer(key)
	}

	owner, e := i.lookup(ck)
	if e == nil {
		return reflect.Value{}, &MissingDependencyError{Type: key, Index: -1}
	}

	if !st.enter(ck) {
		return reflect.Value{}, &CycleDetectedError{Type: key}
	}
	defer st.leave(ck)

	val, err := e.resolveOnce(owner, st)
	if err != nil {
		return reflect.Value{}, err
	}

	if byRef {
		return val, nil
	}
	return val.Elem(), nil
}

func (e *entry) resolveOnce(owner *Injector, st *stack) (reflect.Value, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.resolved {
		return e.val, e.err
	}

	val, err := e.provider.build(owner, st)
	e.val, e.err, e.resolved = val, err, true
	return val, err
}
