package observations

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/JaimeStill/dossier/internal/documents"
	"github.com/JaimeStill/dossier/internal/faults"
	"github.com/JaimeStill/dossier/internal/identity"
	"github.com/JaimeStill/dossier/pkg/handlers"
	"github.com/JaimeStill/dossier/pkg/pagination"
	"github.com/JaimeStill/dossier/pkg/routes"
)

// Handler provides HTTP endpoints for observation batches.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "observations"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for observation endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:  "/observations",
		Tags:    []string{"Observations"},
		Schemas: spec.Schemas,
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Commit, OpenAPI: spec.Commit},
			{Method: "GET", Pattern: "/receiver/{id}", Handler: h.ListForReceiver, OpenAPI: spec.ListForReceiver},
		},
	}
}

// Commit applies an observation batch. An authenticated actor is always
// recorded as the emitter.
func (h *Handler) Commit(w http.ResponseWriter, r *http.Request) {
	var cmd CommitCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, r, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %v", faults.ErrInvalidRequest, err))
		return
	}

	if actor, ok := identity.ActorFrom(r.Context()); ok {
		cmd.EmitterID = actor.ID
	}

	result, err := h.sys.Commit(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, r, h.logger, documents.MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, result)
}

// ListForReceiver returns a page of observations received by a user.
// Supports page, page_size, search, sort, document_id, and emitter_id.
func (h *Handler) ListForReceiver(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		handlers.RespondError(w, r, h.logger, http.StatusBadRequest, fmt.Errorf("%w: receiver id", faults.ErrInvalidRequest))
		return
	}

	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.ListForReceiver(r.Context(), id, page, filters)
	if err != nil {
		handlers.RespondError(w, r, h.logger, documents.MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
