// Package middleware holds the HTTP middleware shared by modules: request
// logging with correlation ids, CORS, and an ordered stack to compose them.
package middleware

import (
	"net/http"
	"slices"
)

// Func wraps a handler.
type Func = func(http.Handler) http.Handler

// System is an ordered middleware stack. The first middleware added is
// the outermost.
type System interface {
	Use(mw Func)
	Apply(handler http.Handler) http.Handler
}

type stack []Func

func New() System {
	return &stack{}
}

func (s *stack) Use(mw Func) {
	*s = append(*s, mw)
}

func (s *stack) Apply(handler http.Handler) http.Handler {
	for _, mw := range slices.Backward(*s) {
		handler = mw(handler)
	}
	return handler
}
