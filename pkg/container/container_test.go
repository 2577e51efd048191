package container_test

import (
	"testing"

	"github.com/denkhaus/tokamak/pkg/bundle"
	"github.com/denkhaus/tokamak/pkg/container"
	"github.com/denkhaus/tokamak/pkg/injector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type Greeter interface {
	Greet() string
}

type service struct {
	Greeting Greeter
}

type greeter struct{ word string }

func (g *greeter) Greet() string { return g.word }

func TestBuildConstructsEveryDeclaredService(t *testing.T) {
	b := bundle.New("app").
		Provide(injector.Value[Greeter](&greeter{word: "hi"})).
		Provide(injector.Autowire[service]())

	c, err := container.Build(zap.NewNop(), false, b)
	require.NoError(t, err)
	defer c.Deinit()

	svc, err := injector.Get[service](c.Injector())
	require.NoError(t, err)
	require.NotNil(t, svc.Greeting)
	assert.Equal(t, "hi", svc.Greeting.Greet())
}

func TestBuildExposesIntrusiveInterface(t *testing.T) {
	b := bundle.New("app").
		Provide(injector.Value(service{Greeting: &greeter{word: "hi"}}))

	c, err := container.Build(zap.NewNop(), false, b)
	require.NoError(t, err)
	defer c.Deinit()

	g, err := injector.Get[Greeter](c.Injector())
	require.NoError(t, err)
	assert.Equal(t, "hi", g.Greet())
}

func TestBuildFailsOnMissingDependency(t *testing.T) {
	b := bundle.New("app").Provide(injector.Autowire[service]())

	_, err := container.Build(zap.NewNop(), false, b)
	// Autowire tolerates unresolvable fields, so building succeeds, but the
	// intrusive-interface alias for Greeter has nothing to build from and
	// must fail when eagerly resolved.
	require.Error(t, err)
}

func TestBuildRunsHooksInOrder(t *testing.T) {
	var trace []string

	b := bundle.New("app").
		Provide(injector.Value("x")).
		AfterBundleInit(func() { trace = append(trace, "bundle-init") }).
		AfterAppInit(func() { trace = append(trace, "app-init") }).
		Deinit(func() { trace = append(trace, "deinit") })

	c, err := container.Build(zap.NewNop(), false, b)
	require.NoError(t, err)
	assert.Equal(t, []string{"bundle-init", "app-init"}, trace)

	require.NoError(t, c.Deinit())
	assert.Equal(t, []string{"bundle-init", "app-init", "deinit"}, trace)
}

func TestDeinitIsIdempotent(t *testing.T) {
	calls := 0
	b := bundle.New("app").Deinit(func() { calls++ })

	c, err := container.Build(zap.NewNop(), false, b)
	require.NoError(t, err)

	require.NoError(t, c.Deinit())
	require.NoError(t, c.Deinit())
	assert.Equal(t, 1, calls)
}

func TestBuildRollsBackDeinitHooksOnAfterAppInitFailure(t *testing.T) {
	var trace []string

	b := bundle.New("app").
		Provide(injector.Value("x")).
		AfterAppInit(func() error { return assert.AnError }).
		Deinit(func() { trace = append(trace, "deinit") })

	_, err := container.Build(zap.NewNop(), false, b)
	require.Error(t, err)
	assert.Equal(t, []string{"deinit"}, trace)
}

func TestDeinitCollectsAllErrors(t *testing.T) {
	b := bundle.New("app").
		Deinit(func() error { return assert.AnError }).
		Deinit(func() error { return assert.AnError })

	c, err := container.Build(zap.NewNop(), false, b)
	require.NoError(t, err)

	err = c.Deinit()
	require.Error(t, err)
}
