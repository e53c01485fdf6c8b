package identity

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Config holds token signing and password hashing parameters.
type Config struct {
	Secret     string `toml:"secret"`
	Issuer     string `toml:"issuer"`
	TokenTTL   string `toml:"token_ttl"`
	BcryptCost int    `toml:"bcrypt_cost"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Secret     string
	Issuer     string
	TokenTTL   string
	BcryptCost string
}

// TokenTTLDuration returns TokenTTL as a time.Duration.
func (c *Config) TokenTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.TokenTTL)
	return d
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
	if overlay.Secret != "" {
		c.Secret = overlay.Secret
	}
	if overlay.Issuer != "" {
		c.Issuer = overlay.Issuer
	}
	if overlay.TokenTTL != "" {
		c.TokenTTL = overlay.TokenTTL
	}
	if overlay.BcryptCost != 0 {
		c.BcryptCost = overlay.BcryptCost
	}
}

func (c *Config) loadDefaults() {
	if c.Issuer == "" {
		c.Issuer = "dossier"
	}
	if c.TokenTTL == "" {
		c.TokenTTL = "12h"
	}
	if c.BcryptCost == 0 {
		c.BcryptCost = bcrypt.DefaultCost
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Secret != "" {
		if v := os.Getenv(env.Secret); v != "" {
			c.Secret = v
		}
	}
	if env.Issuer != "" {
		if v := os.Getenv(env.Issuer); v != "" {
			c.Issuer = v
		}
	}
	if env.TokenTTL != "" {
		if v := os.Getenv(env.TokenTTL); v != "" {
			c.TokenTTL = v
		}
	}
	if env.BcryptCost != "" {
		if v := os.Getenv(env.BcryptCost); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.BcryptCost = n
			}
		}
	}
}

func (c *Config) validate() error {
	if len(c.Secret) < 32 {
		return fmt.Errorf("secret must be at least 32 bytes")
	}
	if d, err := time.ParseDuration(c.TokenTTL); err != nil || d <= 0 {
		return fmt.Errorf("invalid token_ttl: %q", c.TokenTTL)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt_cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	return nil
}
