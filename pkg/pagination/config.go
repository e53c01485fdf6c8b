// Package pagination normalizes page requests from query strings and
// shapes paged results.
package pagination

import (
	"cmp"
	"fmt"
	"os"
	"strconv"
)

// Config bounds page sizes. Requests without a size get DefaultPageSize;
// larger requests are clamped to MaxPageSize.
type Config struct {
	DefaultPageSize int `toml:"default_page_size" json:"default_page_size"`
	MaxPageSize     int `toml:"max_page_size" json:"max_page_size"`
}

type ConfigEnv struct {
	DefaultPageSize string
	MaxPageSize     string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *ConfigEnv) error {
	c.DefaultPageSize = cmp.Or(c.DefaultPageSize, 20)
	c.MaxPageSize = cmp.Or(c.MaxPageSize, 100)

	if env != nil {
		envInt(env.DefaultPageSize, &c.DefaultPageSize)
		envInt(env.MaxPageSize, &c.MaxPageSize)
	}

	switch {
	case c.DefaultPageSize < 1:
		return fmt.Errorf("default_page_size must be positive")
	case c.MaxPageSize < 1:
		return fmt.Errorf("max_page_size must be positive")
	case c.DefaultPageSize > c.MaxPageSize:
		return fmt.Errorf("default_page_size cannot exceed max_page_size")
	}
	return nil
}

// Merge applies non-zero values from the overlay configuration.
func (c *Config) Merge(overlay *Config) {
	c.DefaultPageSize = cmp.Or(overlay.DefaultPageSize, c.DefaultPageSize)
	c.MaxPageSize = cmp.Or(overlay.MaxPageSize, c.MaxPageSize)
}

func envInt(name string, dst *int) {
	if name == "" {
		return
	}
	if n, err := strconv.Atoi(os.Getenv(name)); err == nil {
		*dst = n
	}
}
