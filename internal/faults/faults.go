// Package faults defines the error kinds shared by the workflow packages.
// Domain packages wrap these sentinels with context; callers classify
// failures with errors.Is and never see provider-specific error values.
package faults

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalidRequest     = errors.New("invalid request")
	ErrNotFound           = errors.New("not found")
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrInconsistentState marks a data-integrity anomaly. Log it with
	// AlertDataIntegrity and do not retry.
	ErrInconsistentState  = errors.New("inconsistent state")
	ErrTransactionFailure = errors.New("transaction failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyExists      = errors.New("already exists")
)

// AlertDataIntegrity is the value logged under the "alert" key for
// ErrInconsistentState occurrences.
const AlertDataIntegrity = "data_integrity"

// MapHTTPStatus maps fault kinds to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrStorageUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Retryable reports whether the caller may safely retry the whole operation.
func Retryable(err error) bool {
	return errors.Is(err, ErrStorageUnavailable)
}

var kinds = []error{
	ErrInvalidRequest,
	ErrNotFound,
	ErrStorageUnavailable,
	ErrInconsistentState,
	ErrTransactionFailure,
	ErrInvalidCredentials,
	ErrAlreadyExists,
}

// Classify returns err unchanged when it already carries a fault kind.
// Otherwise it wraps fallback and keeps only the message of err, so driver
// and provider error types do not escape to callers.
func Classify(err, fallback error) error {
	if err == nil {
		return nil
	}
	for _, k := range kinds {
		if errors.Is(err, k) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", fallback, err)
}

// Wrap marks err as kind. Fault kinds already carried by err stay visible
// to errors.Is; any other error contributes only its message.
func Wrap(kind, err error) error {
	if err == nil {
		return nil
	}
	for _, k := range kinds {
		if errors.Is(err, k) {
			return fmt.Errorf("%w: %w", kind, err)
		}
	}
	return fmt.Errorf("%w: %v", kind, err)
}
