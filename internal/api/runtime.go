package api

import (
	"github.com/JaimeStill/dossier/internal/config"
	"github.com/JaimeStill/dossier/internal/infrastructure"
	"github.com/JaimeStill/dossier/internal/review"
	"github.com/JaimeStill/dossier/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination      pagination.Config
	Review          review.Config
	ContainerPrefix string
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
		},
		Pagination:      cfg.API.Pagination,
		Review:          cfg.Review,
		ContainerPrefix: cfg.Storage.ContainerPrefix,
	}
}
