package config

import (
	"cmp"
	"fmt"
	"os"
	"strings"

	"github.com/JaimeStill/dossier/pkg/formatting"
	"github.com/JaimeStill/dossier/pkg/middleware"
	"github.com/JaimeStill/dossier/pkg/openapi"
	"github.com/JaimeStill/dossier/pkg/pagination"
)

const (
	EnvAPIBasePath      = "DOSSIER_API_BASE_PATH"
	EnvAPIMaxUploadSize = "DOSSIER_API_MAX_UPLOAD_SIZE"

	defaultMaxUploadSize = "50MB"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "DOSSIER_CORS_ENABLED",
	Origins:          "DOSSIER_CORS_ORIGINS",
	AllowedMethods:   "DOSSIER_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "DOSSIER_CORS_ALLOWED_HEADERS",
	AllowCredentials: "DOSSIER_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "DOSSIER_CORS_MAX_AGE",
}

var openAPIEnv = &openapi.ConfigEnv{
	Title:       "DOSSIER_OPENAPI_TITLE",
	Description: "DOSSIER_OPENAPI_DESCRIPTION",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "DOSSIER_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "DOSSIER_PAGINATION_MAX_PAGE_SIZE",
}

// APIConfig holds API routing, CORS, pagination, and OpenAPI settings.
// MaxUploadSize bounds multipart submissions, e.g. "25MB".
type APIConfig struct {
	BasePath      string                `toml:"base_path"`
	MaxUploadSize string                `toml:"max_upload_size"`
	CORS          middleware.CORSConfig `toml:"cors"`
	Pagination    pagination.Config     `toml:"pagination"`
	OpenAPI       openapi.Config        `toml:"openapi"`
}

// MaxUploadSizeBytes returns the parsed upload limit. An unparseable value
// falls back to 50MB; Finalize rejects those, so the fallback only applies
// to unfinalized configs.
func (c *APIConfig) MaxUploadSizeBytes() int64 {
	if size, err := formatting.ParseBytes(c.MaxUploadSize); err == nil {
		return size
	}
	size, _ := formatting.ParseBytes(defaultMaxUploadSize)
	return size
}

// Finalize applies defaults, environment overrides, and validation for
// the API config and its nested configs.
func (c *APIConfig) Finalize() error {
	c.BasePath = cmp.Or(os.Getenv(EnvAPIBasePath), c.BasePath, "/api")
	c.MaxUploadSize = cmp.Or(os.Getenv(EnvAPIMaxUploadSize), c.MaxUploadSize, defaultMaxUploadSize)

	if !strings.HasPrefix(c.BasePath, "/") || strings.Count(c.BasePath, "/") != 1 {
		return fmt.Errorf("base_path must be a single path segment: %q", c.BasePath)
	}
	if size, err := formatting.ParseBytes(c.MaxUploadSize); err != nil || size <= 0 {
		return fmt.Errorf("invalid max_upload_size: %q", c.MaxUploadSize)
	}

	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.OpenAPI.Finalize(openAPIEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	c.BasePath = cmp.Or(overlay.BasePath, c.BasePath)
	c.MaxUploadSize = cmp.Or(overlay.MaxUploadSize, c.MaxUploadSize)

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}
