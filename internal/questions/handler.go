package questions

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/JaimeStill/dossier/internal/faults"
	"github.com/JaimeStill/dossier/internal/identity"
	"github.com/JaimeStill/dossier/pkg/handlers"
	"github.com/JaimeStill/dossier/pkg/pagination"
	"github.com/JaimeStill/dossier/pkg/routes"
)

// Handler provides HTTP endpoints for questions.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "questions"),
		pagination: pagination,
	}
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:  "/questions",
		Tags:    []string{"Questions"},
		Schemas: spec.Schemas,
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List, OpenAPI: spec.List},
			{Method: "POST", Pattern: "", Handler: h.Create, OpenAPI: spec.Create},
			{Method: "PATCH", Pattern: "/{id}", Handler: h.Patch, OpenAPI: spec.Patch},
		},
	}
}

// Create records a question. Without user_id the authenticated actor asks
// for themselves.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd CreateCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, r, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %v", faults.ErrInvalidRequest, err))
		return
	}

	if cmd.UserID == 0 {
		if actor, ok := identity.ActorFrom(r.Context()); ok {
			cmd.UserID = actor.ID
		}
	}

	q, err := h.sys.Create(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, r, h.logger, faults.MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, q)
}

func (h *Handler) Patch(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		handlers.RespondError(w, r, h.logger, http.StatusBadRequest, fmt.Errorf("%w: question id", faults.ErrInvalidRequest))
		return
	}

	var cmd PatchCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, r, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %v", faults.ErrInvalidRequest, err))
		return
	}

	q, err := h.sys.Patch(r.Context(), id, cmd)
	if err != nil {
		handlers.RespondError(w, r, h.logger, faults.MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, q)
}

// List returns a page of questions.
// Supports page, page_size, search, sort, user_id, and unanswered.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, r, h.logger, faults.MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
