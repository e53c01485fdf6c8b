package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/dossier/internal/config"
	"github.com/JaimeStill/dossier/pkg/openapi"
	"github.com/JaimeStill/dossier/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) error {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)

	routes.Register(
		mux,
		spec,
		domain.Identity.Handler().Routes(),
		domain.Submissions.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
		domain.Documents.Handler().Routes(),
		domain.Observations.Handler().Routes(),
		domain.Questions.Handler().Routes(),
		domain.Review.Handler().Routes(),
		newStorageHandler(runtime.Storage, runtime.Logger).routes(),
	)

	specBytes, err := openapi.MarshalJSON(spec)
	if err != nil {
		return fmt.Errorf("marshal openapi spec: %w", err)
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(specBytes))

	return nil
}
