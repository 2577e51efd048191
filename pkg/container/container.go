// Package container implements Component D of the tokamak core (spec.md
// §4.D): it composes one or more Bundles into a single Injector, runs that
// Injector's construction eagerly and in dependency order, runs init hooks,
// and owns the built services for the application's lifetime.
//
// Grounded on mwantia-fabric's ServiceContainer.Cleanup (reverse-order
// lifecycle teardown collecting every error instead of stopping at the
// first), generalized to tokamak's Bundle/Provider vocabulary.
package container

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/denkhaus/tokamak/pkg/bundle"
	"github.com/denkhaus/tokamak/pkg/injector"
	"go.uber.org/zap"
)

// Container owns the backing storage for every service built from a set of
// composed Bundles: stable addresses for the container's lifetime, the root
// Injector borrowing that storage, and the ordered hook lists that run
// against it (spec.md §4.D "Container: backing storage ... the root
// Injector, the ordered hook lists").
type Container struct {
	log      *zap.Logger
	root     *injector.Injector
	deinit   []bundle.NamedHook
	deinited bool
}

// Build composes bundles (spec.md §4.D step 1), derives intrusive-interface
// providers (step 4), constructs every declared service eagerly so any
// dependency cycle or missing dependency surfaces immediately rather than on
// first request (steps 2-3), then runs afterBundleInit hooks followed by
// afterAppInit hooks. test enables Mock overrides (spec.md §4.C).
func Build(log *zap.Logger, test bool, bundles ...*bundle.Bundle) (*Container, error) {
	composed, err := bundle.Compose(test, bundles...)
	if err != nil {
		return nil, err
	}

	providers := append(append([]injector.Provider{}, composed.Providers...), deriveIntrusiveProviders(composed.Providers)...)
	root := injector.New(providers, nil)

	// c owns the deinit hook list from the moment the Injector exists, so
	// any failure below can roll back whatever already succeeded (spec.md
	// §4.D Failure: "if any service fails to initialize, already-built
	// services are deinitialized in reverse; container init returns the
	// original error").
	c := &Container{log: log, root: root, deinit: composed.Deinit}

	for _, key := range root.Keys() {
		if _, err := root.ResolveKey(key); err != nil {
			buildErr := fmt.Errorf("container: building %s: %w", key, err)
			c.rollback(buildErr)
			return nil, buildErr
		}
	}
	log.Debug("all services constructed", zap.Int("service_count", len(root.Keys())))

	for _, h := range composed.AfterBundleInit {
		if _, err := root.Call(h.Fn, nil); err != nil {
			buildErr := fmt.Errorf("container: bundle %q afterBundleInit: %w", h.Bundle, err)
			c.rollback(buildErr)
			return nil, buildErr
		}
	}
	for _, h := range composed.AfterAppInit {
		if _, err := root.Call(h.Fn, nil); err != nil {
			buildErr := fmt.Errorf("container: bundle %q afterAppInit: %w", h.Bundle, err)
			c.rollback(buildErr)
			return nil, buildErr
		}
	}
	log.Info("container initialized",
		zap.Int("bundle_count", len(bundles)),
		zap.Int("after_bundle_init_hooks", len(composed.AfterBundleInit)),
		zap.Int("after_app_init_hooks", len(composed.AfterAppInit)),
	)

	return c, nil
}

// rollback runs the deinit hook list in reverse after a failed Build,
// logging (but not returning) any deinit error alongside the original
// failure, which remains the error Build reports.
func (c *Container) rollback(cause error) {
	if err := c.Deinit(); err != nil {
		c.log.Error("container rollback deinit failed",
			zap.Error(err), zap.NamedError("build_error", cause))
	}
}

// Injector returns the root Injector services and request handling resolve
// against. Request-scoped code should Push onto this, never mutate it.
func (c *Container) Injector() *injector.Injector {
	return c.root
}

// Deinit runs every composed bundle's deinit hook in reverse declaration
// order, collecting every failure rather than stopping at the first
// (spec.md §4.D "deinit() calls deinit hooks in reverse, then drops
// storage"). Safe to call once; repeat calls are a no-op.
func (c *Container) Deinit() error {
	if c.deinited {
		return nil
	}
	c.deinited = true

	var errs []error
	for i := len(c.deinit) - 1; i >= 0; i-- {
		h := c.deinit[i]
		if _, err := c.root.Call(h.Fn, nil); err != nil {
			errs = append(errs, fmt.Errorf("bundle %q deinit: %w", h.Bundle, err))
		}
	}
	if len(errs) > 0 {
		c.log.Error("container deinit completed with errors", zap.Int("error_count", len(errs)))
	} else {
		c.log.Info("container deinit complete")
	}
	return errors.Join(errs...)
}

// deriveIntrusiveProviders scans every declared struct-service provider for
// exported fields whose type is an interface not already independently
// provided, and registers a FieldProvider aliasing that field under the
// interface's own key (spec.md §4.D step 4 "intrusive interface").
func deriveIntrusiveProviders(providers []injector.Provider) []injector.Provider {
	existing := make(map[reflect.Type]bool, len(providers))
	for _, p := range providers {
		existing[p.Key] = true
	}

	var derived []injector.Provider
	for _, p := range providers {
		ownerKey := p.Key
		if ownerKey.Kind() != reflect.Pointer {
			continue
		}
		structType := ownerKey.Elem()
		if structType.Kind() != reflect.Struct {
			continue
		}

		for i := 0; i < structType.NumField(); i++ {
			field := structType.Field(i)
			if !field.IsExported() || field.Type.Kind() != reflect.Interface {
				continue
			}
			if existing[field.Type] {
				continue
			}
			existing[field.Type] = true
			derived = append(derived, injector.FieldProvider(ownerKey, field.Type, i))
		}
	}
	return derived
}
