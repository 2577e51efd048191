package main

import (
	"fmt"
	"sync"

	"github.com/denkhaus/tokamak/pkg/config"
	"go.uber.org/zap"
)

// Clock is exposed off fixedClock via bundle.Expose, the way the teacher's
// demo exposes narrow service interfaces for handlers and middleware to
// depend on instead of the concrete struct.
type Clock interface {
	Now() string
}

type fixedClock struct{ label string }

func (c *fixedClock) Now() string { return c.label }

// widget is the domain record the demo resource serves.
type widget struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// widgetStore is a tiny in-memory service, built with injector.Auto so its
// Init method runs once every declared dependency (here just *zap.Logger)
// has been resolved.
type widgetStore struct {
	Logger *zap.Logger

	mu      sync.Mutex
	byID    map[string]widget
	nextSeq int
}

func (s *widgetStore) Init() error {
	s.byID = make(map[string]widget)
	s.Logger.Debug("widget store initialized")
	return nil
}

func (s *widgetStore) List() []widget {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]widget, 0, len(s.byID))
	for _, w := range s.byID {
		out = append(out, w)
	}
	return out
}

func (s *widgetStore) Get(id string) (widget, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.byID[id]
	return w, ok
}

func (s *widgetStore) Create(name string) widget {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSeq++
	w := widget{ID: fmt.Sprintf("w-%d", s.nextSeq), Name: name}
	s.byID[w.ID] = w
	return w
}

// requestScope is a value the demo pushes via a provide() node: resolved
// fresh per request from the request's own scoped Injector, rather than
// once at container build like widgetStore.
type requestScope struct {
	listenAddr string
}

func newRequestScope(cfg *config.Config) (*requestScope, error) {
	return &requestScope{listenAddr: fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)}, nil
}
