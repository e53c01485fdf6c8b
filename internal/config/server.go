package config

import (
	"cmp"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

const (
	EnvServerHost              = "DOSSIER_SERVER_HOST"
	EnvServerPort              = "DOSSIER_SERVER_PORT"
	EnvServerReadTimeout       = "DOSSIER_SERVER_READ_TIMEOUT"
	EnvServerReadHeaderTimeout = "DOSSIER_SERVER_READ_HEADER_TIMEOUT"
	EnvServerWriteTimeout      = "DOSSIER_SERVER_WRITE_TIMEOUT"
	EnvServerIdleTimeout       = "DOSSIER_SERVER_IDLE_TIMEOUT"
	EnvServerShutdownTimeout   = "DOSSIER_SERVER_SHUTDOWN_TIMEOUT"
)

// ServerConfig holds HTTP listener settings. Timeouts are Go duration
// strings. Uploads are bounded by read_timeout, so it stays generous.
type ServerConfig struct {
	Host              string `toml:"host"`
	Port              int    `toml:"port"`
	ReadTimeout       string `toml:"read_timeout"`
	ReadHeaderTimeout string `toml:"read_header_timeout"`
	WriteTimeout      string `toml:"write_timeout"`
	IdleTimeout       string `toml:"idle_timeout"`
	ShutdownTimeout   string `toml:"shutdown_timeout"`
}

func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c *ServerConfig) ReadTimeoutDuration() time.Duration {
	return mustDuration(c.ReadTimeout)
}

func (c *ServerConfig) ReadHeaderTimeoutDuration() time.Duration {
	return mustDuration(c.ReadHeaderTimeout)
}

func (c *ServerConfig) WriteTimeoutDuration() time.Duration {
	return mustDuration(c.WriteTimeout)
}

func (c *ServerConfig) IdleTimeoutDuration() time.Duration {
	return mustDuration(c.IdleTimeout)
}

func (c *ServerConfig) ShutdownTimeoutDuration() time.Duration {
	return mustDuration(c.ShutdownTimeout)
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ServerConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ServerConfig) Merge(overlay *ServerConfig) {
	c.Host = cmp.Or(overlay.Host, c.Host)
	c.Port = cmp.Or(overlay.Port, c.Port)
	for _, f := range c.timeouts() {
		if v := *f.value(overlay); v != "" {
			*f.value(c) = v
		}
	}
}

type timeoutField struct {
	name  string
	env   string
	def   string
	value func(*ServerConfig) *string
}

func (c *ServerConfig) timeouts() []timeoutField {
	return []timeoutField{
		{"read_timeout", EnvServerReadTimeout, "1m", func(s *ServerConfig) *string { return &s.ReadTimeout }},
		{"read_header_timeout", EnvServerReadHeaderTimeout, "10s", func(s *ServerConfig) *string { return &s.ReadHeaderTimeout }},
		{"write_timeout", EnvServerWriteTimeout, "2m", func(s *ServerConfig) *string { return &s.WriteTimeout }},
		{"idle_timeout", EnvServerIdleTimeout, "2m", func(s *ServerConfig) *string { return &s.IdleTimeout }},
		{"shutdown_timeout", EnvServerShutdownTimeout, "30s", func(s *ServerConfig) *string { return &s.ShutdownTimeout }},
	}
}

func (c *ServerConfig) loadDefaults() {
	c.Host = cmp.Or(c.Host, "0.0.0.0")
	c.Port = cmp.Or(c.Port, 8080)
	for _, f := range c.timeouts() {
		p := f.value(c)
		*p = cmp.Or(*p, f.def)
	}
}

func (c *ServerConfig) loadEnv() {
	if v := os.Getenv(EnvServerHost); v != "" {
		c.Host = v
	}
	if v := os.Getenv(EnvServerPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
	for _, f := range c.timeouts() {
		if v := os.Getenv(f.env); v != "" {
			*f.value(c) = v
		}
	}
}

func (c *ServerConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	for _, f := range c.timeouts() {
		if _, err := time.ParseDuration(*f.value(c)); err != nil {
			return fmt.Errorf("invalid %s: %w", f.name, err)
		}
	}
	return nil
}

// mustDuration parses a value already checked by validate.
func mustDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
