package bundle

import (
	"fmt"
	"strings"

	"github.com/denkhaus/tokamak/pkg/injector"
)

// CompositionError aggregates every problem found while composing a set of
// Bundles, rather than failing on the first one (spec.md leaves the error
// shape open; tokamak collects every composition-time diagnostic so a
// misconfigured application prints its whole list of mistakes at once,
// instead of being fixed one failed build at a time).
type CompositionError struct {
	Problems []string
}

func (e *CompositionError) Error() string {
	return fmt.Sprintf("bundle composition failed with %d problem(s):\n  - %s",
		len(e.Problems), strings.Join(e.Problems, "\n  - "))
}

// Composed is the flattened result of Compose: a single provider list ready
// for injector.New, plus the three hook phases in composition order.
type Composed struct {
	Providers       []injector.Provider
	AfterBundleInit []NamedHook
	AfterAppInit    []NamedHook
	Deinit          []NamedHook
}

// NamedHook pairs a hook with the bundle that declared it, so Container can
// attribute a failing hook to its source bundle in error messages.
type NamedHook struct {
	Bundle string
	Fn     Hook
}

// Compose flattens bundles left to right (spec.md §4.D step 1: "Compose all
// modules into a single Bundle; later modules' override/mock win"). Within
// a single bundle, its own overrides beat its own services, and (when test
// is true) its mocks beat its own overrides; across bundles, a later
// bundle's override/mock always beats an earlier bundle's, service or
// otherwise, because providers are appended in bundle order and
// injector.New's "last-wins" duplicate-key rule does the rest.
//
// Every AfterBundleInit hook for a bundle is ordered before every other
// bundle's AfterBundleInit hooks only insofar as declaration order is
// preserved; hooks run relative to the fully built Injector, so ordering
// across bundles rarely matters in practice. AfterAppInit hooks always run
// after every AfterBundleInit hook, matching spec.md's two-phase split.
func Compose(test bool, bundles ...*Bundle) (*Composed, error) {
	var problems []string
	seen := make(map[string]bool)

	out := &Composed{}
	for _, b := range bundles {
		if b == nil {
			continue
		}
		if seen[b.name] && b.name != "" {
			problems = append(problems, fmt.Sprintf("duplicate bundle name %q", b.name))
		}
		seen[b.name] = true

		out.Providers = append(out.Providers, b.services...)
		out.Providers = append(out.Providers, b.exposes...)
		out.Providers = append(out.Providers, b.overrides...)
		if test {
			out.Providers = append(out.Providers, b.mocks...)
		}

		for _, fn := range b.afterBundleInit {
			if err := validateHook(fn); err != nil {
				problems = append(problems, fmt.Sprintf("bundle %q afterBundleInit: %s", b.name, err))
				continue
			}
			out.AfterBundleInit = append(out.AfterBundleInit, NamedHook{b.name, fn})
		}
		for _, fn := range b.afterAppInit {
			if err := validateHook(fn); err != nil {
				problems = append(problems, fmt.Sprintf("bundle %q afterAppInit: %s", b.name, err))
				continue
			}
			out.AfterAppInit = append(out.AfterAppInit, NamedHook{b.name, fn})
		}
		for _, fn := range b.deinit {
			if err := validateHook(fn); err != nil {
				problems = append(problems, fmt.Sprintf("bundle %q deinit: %s", b.name, err))
				continue
			}
			out.Deinit = append(out.Deinit, NamedHook{b.name, fn})
		}
	}

	if len(problems) > 0 {
		return nil, &CompositionError{Problems: problems}
	}
	return out, nil
}

func validateHook(fn Hook) error {
	if fn == nil {
		return fmt.Errorf("hook is nil")
	}
	return nil
}
