package documents

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/JaimeStill/dossier/internal/faults"
	"github.com/JaimeStill/dossier/pkg/handlers"
	"github.com/JaimeStill/dossier/pkg/routes"
)

// Handler provides HTTP endpoints for document state queries.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "documents"),
	}
}

// Routes returns the route group definition for document endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:  "",
		Tags:    []string{"Documents"},
		Schemas: spec.Schemas,
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/users/{code}/documents", Handler: h.ListForUser, OpenAPI: spec.ListForUser},
			{Method: "GET", Pattern: "/users/{id}/documents/state/{state}", Handler: h.ListByState, OpenAPI: spec.ListByState},
			{Method: "GET", Pattern: "/documents/pending", Handler: h.ListPending, OpenAPI: spec.ListPending},
		},
	}
}

// ListForUser returns the required-document catalog with the user's progress.
// Optional query parameter: procedure_type.
func (h *Handler) ListForUser(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	procedureType := r.URL.Query().Get("procedure_type")

	reqs, err := h.sys.ListForUser(r.Context(), code, procedureType)
	if err != nil {
		handlers.RespondError(w, r, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, reqs)
}

func (h *Handler) ListByState(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || userID < 1 {
		handlers.RespondError(w, r, h.logger, http.StatusBadRequest, faults.ErrInvalidRequest)
		return
	}

	state, err := ParseState(r.PathValue("state"))
	if err != nil {
		handlers.RespondError(w, r, h.logger, http.StatusBadRequest, err)
		return
	}

	docs, err := h.sys.ListByState(r.Context(), userID, state)
	if err != nil {
		handlers.RespondError(w, r, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, docs)
}

// ListPending returns users with enough documents awaiting review.
func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	pending, err := h.sys.ListPendingReview(r.Context())
	if err != nil {
		handlers.RespondError(w, r, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, pending)
}
