package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/dossier/pkg/handlers"
	"github.com/JaimeStill/dossier/pkg/middleware"
)

func TestRespondJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	handlers.RespondJSON(rec, http.StatusCreated, map[string]int64{"id": 42})

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.JSONEq(t, `{"id":42}`, rec.Body.String())
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantLevel string
	}{
		{"client error", http.StatusBadRequest, "level=WARN"},
		{"server error", http.StatusBadGateway, "level=ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&logs, nil))

			// Run through the logging middleware so the request carries an id.
			h := middleware.Logger(slog.New(slog.DiscardHandler))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlers.RespondError(w, r, logger, tt.status, errors.New("invalid input"))
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(middleware.RequestIDHeader, "req-7")
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.Equal(t, tt.status, rec.Code)

			var body handlers.ErrorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.Equal(t, "invalid input", body.Error)
			require.Equal(t, "req-7", body.RequestID)

			require.Contains(t, logs.String(), tt.wantLevel)
			require.Contains(t, logs.String(), "request_id=req-7")
		})
	}
}

func TestRespondErrorWithoutRequestID(t *testing.T) {
	rec := httptest.NewRecorder()
	handlers.RespondError(rec, httptest.NewRequest(http.MethodGet, "/", nil), slog.New(slog.DiscardHandler), http.StatusNotFound, errors.New("missing"))

	require.JSONEq(t, `{"error":"missing"}`, rec.Body.String())
}
