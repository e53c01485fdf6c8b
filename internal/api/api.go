// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/JaimeStill/dossier/internal/config"
	"github.com/JaimeStill/dossier/internal/infrastructure"
	"github.com/JaimeStill/dossier/pkg/middleware"
	"github.com/JaimeStill/dossier/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
// Requests carrying a bearer token have the verified actor attached to
// their context before reaching a handler.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)

	domain, err := NewDomain(cfg, runtime)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	if err := registerRoutes(mux, domain, cfg, runtime); err != nil {
		return nil, err
	}

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(domain.Identity.Middleware())

	return m, nil
}
