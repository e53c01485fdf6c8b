package module

import (
	"fmt"
	"maps"
	"net/http"
	"slices"
	"strings"
)

// Router dispatches requests to mounted modules by their first path
// segment. Unmatched paths fall through to a native ServeMux.
type Router struct {
	modules map[string]*Module
	native  *http.ServeMux
}

func NewRouter() *Router {
	return &Router{
		modules: make(map[string]*Module),
		native:  http.NewServeMux(),
	}
}

// HandleNative registers a handler on the native fallback mux.
func (r *Router) HandleNative(pattern string, handler http.HandlerFunc) {
	r.native.HandleFunc(pattern, handler)
}

// Mount registers a module to handle requests matching its prefix.
// Panics if another module already owns the prefix.
func (r *Router) Mount(m *Module) {
	if _, exists := r.modules[m.prefix]; exists {
		panic(fmt.Sprintf("module prefix already mounted: %s", m.prefix))
	}
	r.modules[m.prefix] = m
}

// Prefixes returns the mounted module prefixes in sorted order.
func (r *Router) Prefixes() []string {
	return slices.Sorted(maps.Keys(r.modules))
}

// ServeHTTP dispatches on the first path segment after trimming one
// trailing slash.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if p := req.URL.Path; len(p) > 1 && strings.HasSuffix(p, "/") {
		req.URL.Path = strings.TrimSuffix(p, "/")
	}

	segment, _, _ := strings.Cut(strings.TrimPrefix(req.URL.Path, "/"), "/")
	if m, ok := r.modules["/"+segment]; ok {
		m.Serve(w, req)
		return
	}

	r.native.ServeHTTP(w, req)
}
