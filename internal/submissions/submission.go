// Package submissions coordinates document uploads across the object store
// and the relational store. Local state is written only after the remote
// write succeeds.
package submissions

import (
	"fmt"
	"strings"

	"github.com/JaimeStill/dossier/internal/documents"
	"github.com/JaimeStill/dossier/internal/faults"
)

// Status reports whether a submission created a new remote object or
// overwrote the existing one.
type Status string

const (
	StatusCreated Status = "created"
	StatusUpdated Status = "updated"
)

// SubmitCommand carries one uploaded file for a user-document pair.
type SubmitCommand struct {
	UserID      int64
	DocumentID  int64
	Data        []byte
	Filename    string
	ContentType string
	PageCount   *int
}

// Validate checks the command before any I/O.
func (c SubmitCommand) Validate() error {
	switch {
	case c.UserID < 1:
		return fmt.Errorf("%w: user id required", faults.ErrInvalidRequest)
	case c.DocumentID < 1:
		return fmt.Errorf("%w: document id required", faults.ErrInvalidRequest)
	case len(c.Data) == 0:
		return fmt.Errorf("%w: file is empty", faults.ErrInvalidRequest)
	case strings.TrimSpace(c.Filename) == "":
		return fmt.Errorf("%w: filename required", faults.ErrInvalidRequest)
	}
	return nil
}

// Result is the outcome of a successful submission.
type Result struct {
	Document         *documents.UserDocument `json:"document"`
	Link             string                  `json:"link"`
	Status           Status                  `json:"status"`
	Container        string                  `json:"container"`
	ContainerCreated bool                    `json:"container_created"`
}

// BatchItem reports one document of a multi-document upload. Result is set
// on success; StatusCode and Error describe a failure.
type BatchItem struct {
	DocumentID int64   `json:"document_id"`
	Filename   string  `json:"filename"`
	StatusCode int     `json:"status_code"`
	Result     *Result `json:"result,omitempty"`
	Error      string  `json:"error,omitempty"`
}

// BatchResult collects per-document outcomes in request order.
type BatchResult struct {
	Items  []BatchItem `json:"items"`
	Failed int         `json:"failed"`
}
