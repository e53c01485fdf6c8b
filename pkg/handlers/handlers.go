// Package handlers provides JSON response helpers shared by HTTP handlers.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/dossier/pkg/middleware"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError writes err as an ErrorBody. Server errors log at Error,
// client errors at Warn; both carry the request's correlation id.
func RespondError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, status int, err error) {
	id := middleware.RequestID(r.Context())

	level := slog.LevelWarn
	msg := "request rejected"
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
		msg = "handler error"
	}
	logger.Log(r.Context(), level, msg, "status", status, "request_id", id, "error", err)

	RespondJSON(w, status, ErrorBody{Error: err.Error(), RequestID: id})
}
