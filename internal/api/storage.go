package api

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strconv"

	"github.com/JaimeStill/dossier/pkg/handlers"
	"github.com/JaimeStill/dossier/pkg/openapi"
	"github.com/JaimeStill/dossier/pkg/routes"
	"github.com/JaimeStill/dossier/pkg/storage"
)

// storageHandler serves the targets of shareable document links.
type storageHandler struct {
	store  storage.System
	logger *slog.Logger
}

func newStorageHandler(store storage.System, logger *slog.Logger) *storageHandler {
	return &storageHandler{
		store:  store,
		logger: logger.With("handler", "storage"),
	}
}

func (h *storageHandler) routes() routes.Group {
	return routes.Group{
		Prefix: "/storage",
		Tags:   []string{"Storage"},
		Routes: []routes.Route{
			{
				Method:  "GET",
				Pattern: "/view",
				Handler: h.view,
				OpenAPI: &openapi.Operation{
					Summary: "Stream a stored document",
					Parameters: []*openapi.Parameter{
						openapi.QueryParam("container", "string", "Container name", true),
						openapi.QueryParam("object", "string", "Object name", true),
					},
					Responses: map[int]*openapi.Response{
						200: {Description: "Document content"},
						400: openapi.ResponseRef("BadRequest"),
						404: openapi.ResponseRef("NotFound"),
					},
				},
			},
		},
	}
}

func (h *storageHandler) view(w http.ResponseWriter, r *http.Request) {
	ref := storage.ObjectRef{
		Container: r.URL.Query().Get("container"),
		Object:    r.URL.Query().Get("object"),
	}

	blob, err := h.store.Download(r.Context(), ref)
	if err != nil {
		handlers.RespondError(w, r, h.logger, storage.MapHTTPStatus(err), err)
		return
	}
	defer blob.Body.Close()

	w.Header().Set("Content-Type", blob.ContentType)
	if blob.ContentLength > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(blob.ContentLength, 10))
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", path.Base(ref.Object)))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, blob.Body); err != nil {
		h.logger.Warn("view stream interrupted", "ref", ref.String(), "error", err)
	}
}
