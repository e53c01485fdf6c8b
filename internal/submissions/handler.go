package submissions

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/JaimeStill/dossier/internal/faults"
	"github.com/JaimeStill/dossier/internal/identity"
	"github.com/JaimeStill/dossier/pkg/formatting"
	"github.com/JaimeStill/dossier/pkg/handlers"
	"github.com/JaimeStill/dossier/pkg/routes"
)

// Submitter is the operation the handler drives.
type Submitter interface {
	Submit(ctx context.Context, cmd SubmitCommand) (*Result, error)
}

// Handler provides the HTTP endpoint for document submissions.
type Handler struct {
	sys           Submitter
	logger        *slog.Logger
	maxUploadSize int64
}

// NewHandler creates a Handler with the given submitter, logger, and upload size limit.
func NewHandler(sys Submitter, logger *slog.Logger, maxUploadSize int64) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "submissions"),
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for submission endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:  "/submissions",
		Tags:    []string{"Submissions"},
		Schemas: spec.Schemas,
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Submit, OpenAPI: spec.Submit},
			{Method: "POST", Pattern: "/batch", Handler: h.SubmitBatch, OpenAPI: spec.SubmitBatch},
		},
	}
}

// Submit processes a multipart form with document_id, file, and an optional
// user_id. Without user_id the authenticated actor submits for themselves.
// PDF page counts are extracted with pdfcpu.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}

	userID, err := h.userID(r)
	if err != nil {
		handlers.RespondError(w, r, h.logger, http.StatusBadRequest, err)
		return
	}

	documentID, err := strconv.ParseInt(r.FormValue("document_id"), 10, 64)
	if err != nil {
		handlers.RespondError(w, r, h.logger, http.StatusBadRequest, fmt.Errorf("%w: document_id", faults.ErrInvalidRequest))
		return
	}

	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		handlers.RespondError(w, r, h.logger, http.StatusBadRequest, fmt.Errorf("%w: file", faults.ErrInvalidRequest))
		return
	}

	cmd, err := h.command(userID, documentID, files[0])
	if err != nil {
		handlers.RespondError(w, r, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.Submit(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, r, h.logger, faults.MapHTTPStatus(err), err)
		return
	}

	status := http.StatusOK
	if result.Status == StatusCreated {
		status = http.StatusCreated
	}
	handlers.RespondJSON(w, status, result)
}

// SubmitBatch uploads several documents for one user. The form repeats
// document_id and file; the n-th document_id names the n-th file. Each pair
// is submitted independently, in order, and reported per item. The
// response is 200 when every item succeeded and 207 otherwise.
func (h *Handler) SubmitBatch(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}

	userID, err := h.userID(r)
	if err != nil {
		handlers.RespondError(w, r, h.logger, http.StatusBadRequest, err)
		return
	}

	rawIDs := r.MultipartForm.Value["document_id"]
	files := r.MultipartForm.File["file"]
	if len(files) == 0 || len(rawIDs) != len(files) {
		handlers.RespondError(w, r, h.logger, http.StatusBadRequest,
			fmt.Errorf("%w: %d document_id values for %d files", faults.ErrInvalidRequest, len(rawIDs), len(files)))
		return
	}

	ids := make([]int64, len(rawIDs))
	for i, raw := range rawIDs {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			handlers.RespondError(w, r, h.logger, http.StatusBadRequest, fmt.Errorf("%w: document_id %q", faults.ErrInvalidRequest, raw))
			return
		}
		ids[i] = id
	}

	batch := BatchResult{Items: make([]BatchItem, len(files))}
	for i, fh := range files {
		item := BatchItem{DocumentID: ids[i], Filename: fh.Filename}

		cmd, err := h.command(userID, ids[i], fh)
		if err == nil {
			item.Result, err = h.sys.Submit(r.Context(), cmd)
		}
		if err != nil {
			item.StatusCode = faults.MapHTTPStatus(err)
			item.Error = err.Error()
			batch.Failed++
			h.logger.Warn("batch item failed", "user_id", userID, "document_id", ids[i], "error", err)
		} else {
			item.StatusCode = http.StatusOK
			if item.Result.Status == StatusCreated {
				item.StatusCode = http.StatusCreated
			}
		}
		batch.Items[i] = item
	}

	status := http.StatusOK
	if batch.Failed > 0 {
		status = http.StatusMultiStatus
	}
	handlers.RespondJSON(w, status, batch)
}

// parseForm reads the multipart body within the upload limit and writes
// the error response itself when reading fails.
func (h *Handler) parseForm(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	err := r.ParseMultipartForm(h.maxUploadSize)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) || errors.Is(err, multipart.ErrMessageTooLarge) {
		handlers.RespondError(w, r, h.logger, http.StatusRequestEntityTooLarge,
			fmt.Errorf("%w: upload exceeds %s", faults.ErrInvalidRequest, formatting.FormatBytes(h.maxUploadSize, 1)))
		return false
	}

	handlers.RespondError(w, r, h.logger, http.StatusBadRequest, fmt.Errorf("%w: malformed multipart form", faults.ErrInvalidRequest))
	return false
}

func (h *Handler) command(userID, documentID int64, fh *multipart.FileHeader) (SubmitCommand, error) {
	file, err := fh.Open()
	if err != nil {
		return SubmitCommand{}, fmt.Errorf("%w: open file", faults.ErrInvalidRequest)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return SubmitCommand{}, fmt.Errorf("%w: read file", faults.ErrInvalidRequest)
	}

	contentType := detectContentType(fh.Header.Get("Content-Type"), data)

	return SubmitCommand{
		UserID:      userID,
		DocumentID:  documentID,
		Data:        data,
		Filename:    fh.Filename,
		ContentType: contentType,
		PageCount:   extractPDFPageCount(h.logger, data, contentType),
	}, nil
}

func (h *Handler) userID(r *http.Request) (int64, error) {
	if v := r.FormValue("user_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: user_id", faults.ErrInvalidRequest)
		}
		return id, nil
	}
	if actor, ok := identity.ActorFrom(r.Context()); ok {
		return actor.ID, nil
	}
	return 0, fmt.Errorf("%w: user_id required", faults.ErrInvalidRequest)
}

func detectContentType(header string, data []byte) string {
	header = strings.TrimSpace(header)
	if header != "" && header != "application/octet-stream" {
		return header
	}
	return http.DetectContentType(data)
}

func extractPDFPageCount(logger *slog.Logger, data []byte, contentType string) *int {
	if contentType != "application/pdf" {
		return nil
	}

	count, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		logger.Warn("failed to extract PDF page count", "error", err)
		return nil
	}

	return &count
}
