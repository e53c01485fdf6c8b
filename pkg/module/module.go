// Package module mounts self-contained HTTP handlers under single-segment
// path prefixes, each with its own middleware stack.
package module

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/JaimeStill/dossier/pkg/middleware"
)

// Module serves a handler under prefix. The handler sees paths with the
// prefix removed.
type Module struct {
	prefix     string
	router     http.Handler
	middleware middleware.System
}

// New panics unless prefix is a single segment such as "/api".
func New(prefix string, router http.Handler) *Module {
	if err := validatePrefix(prefix); err != nil {
		panic(err)
	}
	return &Module{
		prefix:     prefix,
		router:     router,
		middleware: middleware.New(),
	}
}

func (m *Module) Prefix() string {
	return m.prefix
}

func (m *Module) Use(mw middleware.Func) {
	m.middleware.Use(mw)
}

// Handler returns the router wrapped in the module's middleware.
func (m *Module) Handler() http.Handler {
	return m.middleware.Apply(m.router)
}

// Serve dispatches r with the module prefix trimmed from its path.
func (m *Module) Serve(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, m.prefix)
	if rest == "" {
		rest = "/"
	}

	inner := r.Clone(r.Context())
	inner.URL.Path = rest
	inner.URL.RawPath = ""

	m.Handler().ServeHTTP(w, inner)
}

func validatePrefix(prefix string) error {
	switch {
	case prefix == "":
		return fmt.Errorf("module prefix cannot be empty")
	case !strings.HasPrefix(prefix, "/"):
		return fmt.Errorf("module prefix must start with /: %s", prefix)
	case strings.Count(prefix, "/") != 1:
		return fmt.Errorf("module prefix must be single-level sub-path: %s", prefix)
	}
	return nil
}
