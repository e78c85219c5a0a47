package httpapi

import (
	"context"
	"net/http"
	"sort"
)

// HandlerFunc handles one normalized request and returns its only response.
type HandlerFunc func(ctx context.Context, req *Request) Response

// Router is an immutable routing table keyed by trimmed path.
type Router struct {
	routes   map[string]HandlerFunc
	notFound HandlerFunc
}

// NewRouter copies routes, so later changes to the map do not affect the
// router. A nil notFound answers 404 with an empty object.
func NewRouter(routes map[string]HandlerFunc, notFound HandlerFunc) *Router {
	copied := make(map[string]HandlerFunc, len(routes))
	for path, h := range routes {
		copied[path] = h
	}
	if notFound == nil {
		notFound = NotFound
	}
	return &Router{routes: copied, notFound: notFound}
}

// Lookup returns the handler for path and whether it matched a route.
func (r *Router) Lookup(path string) (HandlerFunc, bool) {
	if h, ok := r.routes[path]; ok {
		return h, true
	}
	return r.notFound, false
}

// Paths lists the routed paths in order.
func (r *Router) Paths() []string {
	paths := make([]string, 0, len(r.routes))
	for p := range r.routes {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// NotFound answers 404 with an empty JSON object.
func NotFound(context.Context, *Request) Response {
	return jsonResp(http.StatusNotFound, nil)
}
