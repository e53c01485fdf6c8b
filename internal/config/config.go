package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/dossier/internal/identity"
	"github.com/JaimeStill/dossier/internal/review"
	"github.com/JaimeStill/dossier/pkg/database"
	"github.com/JaimeStill/dossier/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvDossierEnv             = "DOSSIER_ENV"
	EnvDossierShutdownTimeout = "DOSSIER_SHUTDOWN_TIMEOUT"
	EnvDossierVersion         = "DOSSIER_VERSION"
)

var databaseEnv = &database.Env{
	Host:             "DOSSIER_DB_HOST",
	Port:             "DOSSIER_DB_PORT",
	Name:             "DOSSIER_DB_NAME",
	User:             "DOSSIER_DB_USER",
	Password:         "DOSSIER_DB_PASSWORD",
	SSLMode:          "DOSSIER_DB_SSL_MODE",
	MaxOpenConns:     "DOSSIER_DB_MAX_OPEN_CONNS",
	MaxIdleConns:     "DOSSIER_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime:  "DOSSIER_DB_CONN_MAX_LIFETIME",
	ConnTimeout:      "DOSSIER_DB_CONN_TIMEOUT",
	StatementTimeout: "DOSSIER_DB_STATEMENT_TIMEOUT",
	ApplicationName:  "DOSSIER_DB_APPLICATION_NAME",
}

var storageEnv = &storage.Env{
	ConnectionString: "DOSSIER_STORAGE_CONNECTION_STRING",
	AccountURL:       "DOSSIER_STORAGE_ACCOUNT_URL",
	ContainerPrefix:  "DOSSIER_STORAGE_CONTAINER_PREFIX",
	ViewBaseURL:      "DOSSIER_STORAGE_VIEW_BASE_URL",
}

var authEnv = &identity.Env{
	Secret:     "DOSSIER_AUTH_SECRET",
	Issuer:     "DOSSIER_AUTH_ISSUER",
	TokenTTL:   "DOSSIER_AUTH_TOKEN_TTL",
	BcryptCost: "DOSSIER_AUTH_BCRYPT_COST",
}

var reviewEnv = &review.Env{
	MinOutstanding:    "DOSSIER_REVIEW_MIN_OUTSTANDING",
	RecentQuestions:   "DOSSIER_REVIEW_RECENT_QUESTIONS",
	StrictTransitions: "DOSSIER_REVIEW_STRICT_TRANSITIONS",
}

// Config is the root configuration for the Dossier service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Database        database.Config `toml:"database"`
	Storage         storage.Config  `toml:"storage"`
	API             APIConfig       `toml:"api"`
	Auth            identity.Config `toml:"auth"`
	Review          review.Config   `toml:"review"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the DOSSIER_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvDossierEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// LoadDatabase resolves only the database section, for tools such as the
// migrator that must not require the rest of the service configuration.
func LoadDatabase() (*database.Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}

	if err := cfg.Database.Finalize(databaseEnv); err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	return &cfg.Database, nil
}

func read() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Auth.Merge(&overlay.Auth)
	c.Review.Merge(&overlay.Review)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Auth.Finalize(authEnv); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.Review.Finalize(reviewEnv); err != nil {
		return fmt.Errorf("review: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvDossierShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvDossierVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvDossierEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
