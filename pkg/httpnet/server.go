package httpnet

import (
	"context"
	"fmt"
	"net/http"

	"github.com/denkhaus/tokamak/pkg/config"
	"github.com/denkhaus/tokamak/pkg/httpx"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// CoreHandler is the single entrypoint tokamak's dispatcher exposes to the
// transport: given the raw adapted request/response, match the route tree,
// bind parameters, and invoke a handler. Server never looks inside it.
type CoreHandler func(req httpx.Request, resp httpx.Response)

// Server mounts a CoreHandler behind chi as the outer request entrypoint
// (spec.md §6's transport contract is satisfied underneath this by
// NewRequest/NewResponse); chi's own routing and param extraction are never
// consulted, only its mux/middleware plumbing.
type Server struct {
	mux  *chi.Mux
	http *http.Server
	log  *zap.Logger
}

// NewServer wires cfg.Server's listen address/timeouts onto an http.Server
// fronted by a chi.Mux whose only route is a catch-all delegating to core.
func NewServer(cfg *config.Config, log *zap.Logger, core CoreHandler) *Server {
	mux := chi.NewRouter()
	mux.Use(chimiddleware.Recoverer)

	mux.Handle("/*", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := NewRequest(r, nil)
		resp := NewResponse(w)
		core(req, resp)
	}))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	return &Server{
		mux: mux,
		http: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
		log: log,
	}
}

// ListenAndServe blocks serving requests until the server is shut down.
// http.ErrServerClosed is swallowed, matching net/http's documented
// graceful-shutdown convention.
func (s *Server) ListenAndServe() error {
	s.log.Info("listening", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully drains in-flight requests within ctx's deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
