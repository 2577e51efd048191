// Package bundle implements Component C of the tokamak core: the
// compile-time description of a module of services, their initialization
// strategies, overrides/mocks, exposed sub-fields, and init/deinit hooks.
//
// A Bundle never builds anything itself — it only accumulates declarations.
// pkg/container flattens one or more Bundles into a provider list and an
// ordered hook list, then asks pkg/injector to build it.
package bundle

import (
	"github.com/denkhaus/tokamak/pkg/injector"
)

// Hook is an arbitrary function resolved like a handler: its parameters are
// satisfied from the fully-built Injector via injector.Call, the same way
// route handlers are (spec.md §4.C "afterBundleInit/afterAppInit ... hooks
// resolved like handlers").
type Hook = any

// Bundle accumulates service declarations for one module. Methods return the
// receiver so calls chain, mirroring the declarative feel of mwantia-fabric's
// Register/With option chains without committing tokamak to that exact
// option-functor shape (tokamak's services are declared as Providers up
// front, not as post-hoc options on a generic Register call).
type Bundle struct {
	name string

	services  []injector.Provider
	overrides []injector.Provider
	mocks     []injector.Provider
	exposes   []injector.Provider

	afterBundleInit []Hook
	afterAppInit    []Hook
	deinit          []Hook
}

// New starts an empty Bundle. name is used only for diagnostics (composition
// error messages identify which bundle a rejected hook or duplicate name
// came from).
func New(name string) *Bundle {
	return &Bundle{name: name}
}

// Name returns the Bundle's diagnostic name.
func (b *Bundle) Name() string { return b.name }

// Provide declares a service. p is typically built with injector.Value,
// injector.Ref, injector.Factory, injector.Initializer, injector.Autowire or
// injector.Auto.
func (b *Bundle) Provide(p injector.Provider) *Bundle {
	b.services = append(b.services, p)
	return b
}

// Override replaces the provider for an existing key across the whole
// composed set of Bundles (spec.md §4.C "override(T, how) replaces the
// provider for T across the whole composed Bundle"). Composition applies
// overrides after every Bundle's own services, left to right, so a later
// Bundle's Override always wins over an earlier Bundle's Provide.
func (b *Bundle) Override(p injector.Provider) *Bundle {
	b.overrides = append(b.overrides, p)
	return b
}

// Mock behaves exactly like Override but is only applied when Compose is
// called with test mode enabled (spec.md §4.C "mock behaves identically but
// only when a test flag is set").
func (b *Bundle) Mock(p injector.Provider) *Bundle {
	b.mocks = append(b.mocks, p)
	return b
}

// Expose registers a pointer to a field of an already-declared service
// under a new key, typically an interface the field satisfies (spec.md
// §4.C "expose(T, field) registers a pointer to service.field under key
// *FieldType"). It is built on injector.Factory: the field's owning service
// is resolved as a normal dependency, so Expose participates in the same
// lazy, cycle-checked construction as everything else.
func Expose[Owner any, Field any](bundle *Bundle, extract func(*Owner) Field) *Bundle {
	bundle.exposes = append(bundle.exposes, injector.Factory[Field](func(owner *Owner) (Field, error) {
		return extract(owner), nil
	}))
	return bundle
}

// AfterBundleInit registers a hook run once every service declared by THIS
// bundle exists, before other bundles' AfterAppInit hooks run. fn's
// parameters are resolved from the Injector under construction.
func (b *Bundle) AfterBundleInit(fn Hook) *Bundle {
	b.afterBundleInit = append(b.afterBundleInit, fn)
	return b
}

// AfterAppInit registers a hook run once every bundle composed into the
// Container has finished building, after all AfterBundleInit hooks.
func (b *Bundle) AfterAppInit(fn Hook) *Bundle {
	b.afterAppInit = append(b.afterAppInit, fn)
	return b
}

// Deinit registers a teardown hook. Container.Deinit runs every bundle's
// deinit hooks in reverse declaration order across the whole composition.
func (b *Bundle) Deinit(fn Hook) *Bundle {
	b.deinit = append(b.deinit, fn)
	return b
}

// Configurable is implemented by a user type whose zero value documents a
// bundle's services declaratively (spec.md §4.C: "a type whose fields each
// describe one service ... configure(bundle) called once at container-build
// with a mutable Bundle"). Go has no field-decorator syntax, so tokamak asks
// the type for its Bundle directly instead of reflecting over struct tags.
type Configurable interface {
	Configure(b *Bundle)
}

// FromConfigurable builds a named Bundle by calling cfg's Configure method.
func FromConfigurable(name string, cfg Configurable) *Bundle {
	b := New(name)
	cfg.Configure(b)
	return b
}
