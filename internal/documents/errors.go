package documents

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/JaimeStill/dossier/internal/faults"
)

// Domain errors for document state operations.
var (
	ErrNotFound          = fmt.Errorf("user document %w", faults.ErrNotFound)
	ErrUserNotFound      = fmt.Errorf("user %w", faults.ErrNotFound)
	ErrDuplicate         = fmt.Errorf("user document %w", faults.ErrAlreadyExists)
	ErrIllegalTransition = fmt.Errorf("%w: illegal state transition", faults.ErrInvalidRequest)
	ErrConflictingChange = fmt.Errorf("%w: conflicting target states for one document", faults.ErrInvalidRequest)
	ErrRefMismatch       = fmt.Errorf("%w: stored object reference changed", faults.ErrInconsistentState)
	ErrBatchMismatch     = fmt.Errorf("%w: batch affected unexpected row count", faults.ErrInconsistentState)
)

// MapHTTPStatus maps document domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrIllegalTransition) {
		return http.StatusConflict
	}
	return faults.MapHTTPStatus(err)
}
