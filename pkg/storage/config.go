package storage

import (
	"fmt"
	"net/url"
	"os"
)

// Config holds Azure Blob Storage connection parameters.
type Config struct {
	ConnectionString string `toml:"connection_string"`
	AccountURL       string `toml:"account_url"`
	ContainerPrefix  string `toml:"container_prefix"`
	ViewBaseURL      string `toml:"view_base_url"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	ConnectionString string
	AccountURL       string
	ContainerPrefix  string
	ViewBaseURL      string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.ConnectionString != "" {
		c.ConnectionString = overlay.ConnectionString
	}
	if overlay.AccountURL != "" {
		c.AccountURL = overlay.AccountURL
	}
	if overlay.ContainerPrefix != "" {
		c.ContainerPrefix = overlay.ContainerPrefix
	}
	if overlay.ViewBaseURL != "" {
		c.ViewBaseURL = overlay.ViewBaseURL
	}
}

func (c *Config) loadDefaults() {
	if c.ContainerPrefix == "" {
		c.ContainerPrefix = "dossier"
	}
	if c.ViewBaseURL == "" {
		c.ViewBaseURL = "https://localhost:8080/api/storage"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.ConnectionString != "" {
		if v := os.Getenv(env.ConnectionString); v != "" {
			c.ConnectionString = v
		}
	}
	if env.AccountURL != "" {
		if v := os.Getenv(env.AccountURL); v != "" {
			c.AccountURL = v
		}
	}
	if env.ContainerPrefix != "" {
		if v := os.Getenv(env.ContainerPrefix); v != "" {
			c.ContainerPrefix = v
		}
	}
	if env.ViewBaseURL != "" {
		if v := os.Getenv(env.ViewBaseURL); v != "" {
			c.ViewBaseURL = v
		}
	}
}

func (c *Config) validate() error {
	if c.ConnectionString == "" && c.AccountURL == "" {
		return fmt.Errorf("connection_string or account_url required")
	}
	u, err := url.Parse(c.ViewBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid view_base_url: %q", c.ViewBaseURL)
	}
	return nil
}
