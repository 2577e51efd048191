package router

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/denkhaus/tokamak/pkg/httpx"
	"github.com/denkhaus/tokamak/pkg/route"
)

var validMethods = map[string]httpx.Method{
	"GET":     httpx.GET,
	"POST":    httpx.POST,
	"PUT":     httpx.PUT,
	"DELETE":  httpx.DELETE,
	"PATCH":   httpx.PATCH,
	"HEAD":    httpx.HEAD,
	"OPTIONS": httpx.OPTIONS,
}

// Derivable is implemented by a type whose methods FromType turns into
// terminal routes. Go identifiers cannot contain a literal space or slash,
// so a method name can't spell "GET /users/:id" directly; FromType instead
// reads a MethodRoutes() map[string]string keyed by the real Go method name
// and valued by its "<METHOD> <PATH>" identifier. Methods not named in the
// mapping are ignored, letting the type carry ordinary helper methods
// alongside routes; a mapping entry naming a missing method or holding an
// identifier that doesn't parse makes FromType return an error.
type Derivable interface {
	MethodRoutes() map[string]string
}

// FromType derives a route.Node tree from instance's MethodRoutes mapping,
// one terminal node per entry, ordered by Go method name for determinism.
func FromType(instance Derivable) (*route.Node, error) {
	mapping := instance.MethodRoutes()
	names := make([]string, 0, len(mapping))
	for name := range mapping {
		names = append(names, name)
	}
	sortStrings(names)

	val := reflect.ValueOf(instance)
	var nodes []*route.Node
	for _, name := range names {
		spec := mapping[name]
		method, ok := val.Type().MethodByName(name)
		if !ok {
			return nil, fmt.Errorf("router: %T has no method %q named by MethodRoutes", instance, name)
		}
		verb, path, parseErr := parseRouteIdentifier(spec)
		if parseErr != nil {
			return nil, fmt.Errorf("router: %T.%s: %w", instance, name, parseErr)
		}
		fn := val.Method(method.Index).Interface()
		nodes = append(nodes, route.Route(verb, path, fn))
	}
	return route.New(nodes...), nil
}

// parseRouteIdentifier parses "<METHOD> <PATH>" as spec.md §4.F defines
// it: an uppercase HTTP method, a single space, then a path beginning
// with /, using the same :name / * rules as any other pattern.
func parseRouteIdentifier(identifier string) (httpx.Method, string, error) {
	sp := strings.IndexByte(identifier, ' ')
	if sp < 0 {
		return "", "", fmt.Errorf("%q is not \"<METHOD> <PATH>\"", identifier)
	}
	verbText, path := identifier[:sp], identifier[sp+1:]
	verb, ok := validMethods[verbText]
	if !ok {
		return "", "", fmt.Errorf("%q: unknown HTTP method %q", identifier, verbText)
	}
	if !strings.HasPrefix(path, "/") {
		return "", "", fmt.Errorf("%q: path must begin with /", identifier)
	}
	if strings.Contains(path, " ") {
		return "", "", fmt.Errorf("%q: path must not contain a second space", identifier)
	}
	return verb, path, nil
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
