package bundle_test

import (
	"testing"

	"github.com/denkhaus/tokamak/pkg/bundle"
	"github.com/denkhaus/tokamak/pkg/injector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Clock interface {
	Now() string
}

type fixedClock struct{ at string }

func (c *fixedClock) Now() string { return c.at }

type Service struct {
	Clock Clock
}

func TestComposeLastBundleOverrideWins(t *testing.T) {
	base := bundle.New("base").Provide(injector.Value("base-value"))
	override := bundle.New("override").Override(injector.Value("override-value"))

	composed, err := bundle.Compose(false, base, override)
	require.NoError(t, err)

	inj := injector.New(composed.Providers, nil)
	got, err := injector.Get[string](inj)
	require.NoError(t, err)
	assert.Equal(t, "override-value", got)
}

func TestComposeMocksOnlyApplyInTestMode(t *testing.T) {
	base := bundle.New("base").
		Provide(injector.Value(1)).
		Mock(injector.Value(99))

	composed, err := bundle.Compose(false, base)
	require.NoError(t, err)
	inj := injector.New(composed.Providers, nil)
	got, err := injector.Get[int](inj)
	require.NoError(t, err)
	assert.Equal(t, 1, got, "mocks must not apply when test mode is off")

	composedTest, err := bundle.Compose(true, base)
	require.NoError(t, err)
	injTest := injector.New(composedTest.Providers, nil)
	got, err = injector.Get[int](injTest)
	require.NoError(t, err)
	assert.Equal(t, 99, got, "mocks must win over services when test mode is on")
}

func TestExposeRegistersFieldUnderInterfaceKey(t *testing.T) {
	b := bundle.New("app").
		Provide(injector.Value(Service{Clock: &fixedClock{at: "noon"}}))
	bundle.Expose[Service, Clock](b, func(s *Service) Clock { return s.Clock })

	composed, err := bundle.Compose(false, b)
	require.NoError(t, err)

	inj := injector.New(composed.Providers, nil)
	clock, err := injector.Get[Clock](inj)
	require.NoError(t, err)
	assert.Equal(t, "noon", clock.Now())
}

func TestComposeCollectsMultipleProblems(t *testing.T) {
	broken := bundle.New("broken").
		AfterBundleInit(nil).
		Deinit(nil)

	_, err := bundle.Compose(false, broken)
	require.Error(t, err)

	var compErr *bundle.CompositionError
	require.ErrorAs(t, err, &compErr)
	assert.Len(t, compErr.Problems, 2)
}

type configurableModule struct {
	greeting string
}

func (m configurableModule) Configure(b *bundle.Bundle) {
	b.Provide(injector.Value(m.greeting))
}

func TestFromConfigurable(t *testing.T) {
	b := bundle.FromConfigurable("greeting", configurableModule{greeting: "hi"})
	composed, err := bundle.Compose(false, b)
	require.NoError(t, err)

	inj := injector.New(composed.Providers, nil)
	got, err := injector.Get[string](inj)
	require.NoError(t, err)
	assert.Equal(t, "hi", got)
}
