package main

import (
	"fmt"

	"github.com/denkhaus/tokamak/pkg/apperr"
)

// widgetResource groups the widget routes behind a single Go type, the way
// router.FromType derives a route tree from a MethodRoutes mapping instead
// of one .Get/.Post call per endpoint.
type widgetResource struct {
	store *widgetStore
}

// MethodRoutes satisfies router.Derivable: each entry maps a Go method name
// on widgetResource to the "<METHOD> <PATH>" identifier it serves.
func (r *widgetResource) MethodRoutes() map[string]string {
	return map[string]string{
		"List":   "GET /widgets",
		"Get":    "GET /widgets/:id",
		"Create": "POST /widgets",
	}
}

func (r *widgetResource) List() []widget {
	return r.store.List()
}

func (r *widgetResource) Get(id string) (widget, error) {
	w, ok := r.store.Get(id)
	if !ok {
		return widget{}, apperr.NewNotFound(fmt.Sprintf("widget %q not found", id))
	}
	return w, nil
}

type createWidgetRequest struct {
	Name string `json:"name"`
}

func (r *widgetResource) Create(body createWidgetRequest) (widget, error) {
	if body.Name == "" {
		return widget{}, apperr.NewBadRequest("field \"name\" must not be empty")
	}
	return r.store.Create(body.Name), nil
}
