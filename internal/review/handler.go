package review

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/dossier/internal/faults"
	"github.com/JaimeStill/dossier/pkg/handlers"
	"github.com/JaimeStill/dossier/pkg/routes"
)

// Handler provides HTTP endpoints for reviewer aggregates.
type Handler struct {
	sys    System
	logger *slog.Logger
}

func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "review"),
	}
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:  "/review",
		Tags:    []string{"Review"},
		Schemas: spec.Schemas,
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/worklist", Handler: h.Worklist, OpenAPI: spec.Worklist},
			{Method: "GET", Pattern: "/users/{code}", Handler: h.Snapshot, OpenAPI: spec.Snapshot},
		},
	}
}

func (h *Handler) Worklist(w http.ResponseWriter, r *http.Request) {
	entries, err := h.sys.Worklist(r.Context())
	if err != nil {
		handlers.RespondError(w, r, h.logger, faults.MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, entries)
}

func (h *Handler) Snapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.sys.Snapshot(r.Context(), r.PathValue("code"))
	if err != nil {
		handlers.RespondError(w, r, h.logger, faults.MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, snap)
}
