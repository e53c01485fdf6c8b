package openapi

import (
	"cmp"
	"os"
)

// Config holds the document metadata published at /openapi.json.
type Config struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
}

type ConfigEnv struct {
	Title       string
	Description string
}

// Finalize applies defaults, then environment overrides.
func (c *Config) Finalize(env *ConfigEnv) error {
	c.Title = cmp.Or(c.Title, "Dossier API")
	c.Description = cmp.Or(c.Description, "Document submission and review workflow service.")
	if env != nil {
		c.Title = cmp.Or(lookup(env.Title), c.Title)
		c.Description = cmp.Or(lookup(env.Description), c.Description)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	c.Title = cmp.Or(overlay.Title, c.Title)
	c.Description = cmp.Or(overlay.Description, c.Description)
}

func lookup(name string) string {
	if name == "" {
		return ""
	}
	return os.Getenv(name)
}
