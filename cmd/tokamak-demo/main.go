// Command tokamak-demo wires a small widgets API showing every layer of
// tokamak end to end: a Bundle declaring two services, a Container building
// them eagerly, a route tree mixing hand-written routes with a
// reflection-derived resource, and a Dispatcher serving it behind chi.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/denkhaus/tokamak/pkg/apperr"
	"github.com/denkhaus/tokamak/pkg/bundle"
	"github.com/denkhaus/tokamak/pkg/config"
	"github.com/denkhaus/tokamak/pkg/container"
	"github.com/denkhaus/tokamak/pkg/dispatch"
	"github.com/denkhaus/tokamak/pkg/httpnet"
	"github.com/denkhaus/tokamak/pkg/injector"
	"github.com/denkhaus/tokamak/pkg/logging"
	"github.com/denkhaus/tokamak/pkg/route"
	"github.com/denkhaus/tokamak/pkg/router"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	app := &cli.App{
		Name:  "tokamak-demo",
		Usage: "run the tokamak widgets demo server",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "test-mode",
				Usage:   "build the container with bundle Mock overrides applied",
				EnvVars: []string{"TOKAMAK_TEST_MODE"},
			},
		},
		Action: func(c *cli.Context) error {
			return run(c.Bool("test-mode"))
		},
	}

	if err := app.Run(os.Args); err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			fmt.Fprintf(os.Stderr, "tokamak-demo: %s (kind=%s)\n", appErr.Message, appErr.Kind)
		} else {
			fmt.Fprintf(os.Stderr, "tokamak-demo: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(testMode bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	log, atomicLevel, err := logging.NewAtomic(cfg)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer log.Sync()

	if cfg.Watch.Enabled {
		watcher, err := config.WatchFile(cfg, log, func(level, _ string) {
			atomicLevel.SetLevel(logging.ParseLevel(level))
		})
		if err != nil {
			return fmt.Errorf("starting config watch: %w", err)
		}
		defer watcher.Close()
	}

	app := buildBundle(cfg).Provide(injector.Ref[zap.Logger](log))

	c, err := container.Build(log, testMode, app)
	if err != nil {
		return fmt.Errorf("building container: %w", err)
	}
	defer c.Deinit()

	store := injector.MustGet[*widgetStore](c.Injector())

	root := buildRoutes(store)

	d := dispatch.New(root, c.Injector(), log, dispatch.Config{
		MaxBodyLen: cfg.Route.MaxBodyLen,
	})

	server := httpnet.NewServer(cfg, log, d.Handle)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case <-sig:
		log.Info("shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(ctx)
}

// buildBundle declares the demo's two services: a container-built clock
// exposed under its own interface, and the widget store, built with Auto so
// its Init hook runs once *zap.Logger has been autowired in (run adds the
// logger to the returned bundle).
func buildBundle(cfg *config.Config) *bundle.Bundle {
	b := bundle.New("demo").
		Provide(injector.Ref[config.Config](cfg)).
		Provide(injector.Value(fixedClock{label: "demo-clock"})).
		Provide(injector.Auto[widgetStore]())

	bundle.Expose[fixedClock, Clock](b, func(c *fixedClock) Clock { return c })

	b.AfterAppInit(func(log *zap.Logger) {
		log.Info("demo bundle ready")
	})

	return b
}

// buildRoutes assembles the route tree: a few plain routes exercising the
// container-built Clock, a request-scoped value pushed via provide(), and
// the widgets resource mounted through reflection-derived routing.
func buildRoutes(store *widgetStore) *route.Node {
	resource := &widgetResource{store: store}
	widgetRoutes, err := router.FromType(resource)
	if err != nil {
		panic(fmt.Sprintf("tokamak-demo: deriving widget routes: %v", err))
	}

	b := router.New().
		Get("/health", router.Send("ok")).
		Get("/moved", router.Redirect("/health")).
		Get("/time", func(clock Clock) string { return clock.Now() }).
		Provide(newRequestScope, func(sub *router.Builder) {
			sub.Get("/whoami", func(rs *requestScope) string {
				return "serving from " + rs.listenAddr
			})
		}).
		Mount(widgetRoutes)

	return b.Build()
}
