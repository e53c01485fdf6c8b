package storage

import (
	"errors"
	"net/http"
)

var (
	// ErrNotFound indicates the requested object or container does not exist.
	ErrNotFound = errors.New("object not found")
	// ErrEmptyKey indicates an empty container or object name was provided.
	ErrEmptyKey = errors.New("storage reference must not be empty")
	// ErrInvalidKey indicates the object name contains a path traversal segment.
	ErrInvalidKey = errors.New("storage reference contains invalid path segment")
	// ErrInvalidContainer indicates a container name the provider would reject.
	ErrInvalidContainer = errors.New("invalid container name")
)

// MapHTTPStatus maps storage errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrEmptyKey) || errors.Is(err, ErrInvalidKey) || errors.Is(err, ErrInvalidContainer) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
