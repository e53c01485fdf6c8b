package identity

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/dossier/internal/faults"
	"github.com/JaimeStill/dossier/pkg/handlers"
	"github.com/JaimeStill/dossier/pkg/routes"
)

// Handler provides HTTP endpoints for login and registration.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "identity"),
	}
}

// Routes returns the route group definition for identity endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:  "/auth",
		Tags:    []string{"Identity"},
		Schemas: spec.Schemas,
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/login", Handler: h.Login, OpenAPI: spec.Login},
			{Method: "POST", Pattern: "/register", Handler: h.Register, OpenAPI: spec.Register},
		},
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var cmd LoginCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, r, h.logger, http.StatusBadRequest, faults.ErrInvalidRequest)
		return
	}

	session, err := h.sys.Login(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, r, h.logger, faults.MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, session)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var cmd RegisterCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, r, h.logger, http.StatusBadRequest, faults.ErrInvalidRequest)
		return
	}

	session, err := h.sys.Register(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, r, h.logger, faults.MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, session)
}
