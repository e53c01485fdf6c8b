package review

import (
	"fmt"
	"os"
	"strconv"

	"github.com/JaimeStill/dossier/internal/documents"
)

const defaultRecentQuestions = 2

// Config holds the reviewer worklist rules. RecentQuestions is a pointer
// so an explicit 0 disables questions on the worklist instead of falling
// back to the default.
type Config struct {
	MinOutstanding    int  `toml:"min_outstanding"`
	RecentQuestions   *int `toml:"recent_questions"`
	StrictTransitions bool `toml:"strict_transitions"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	MinOutstanding    string
	RecentQuestions   string
	StrictTransitions string
}

// Policy returns the document engine rules derived from this config.
func (c *Config) Policy() documents.Policy {
	return documents.Policy{
		MinOutstanding:    c.MinOutstanding,
		StrictTransitions: c.StrictTransitions,
	}
}

// QuestionLimit returns how many unanswered questions each worklist entry
// carries.
func (c *Config) QuestionLimit() int {
	if c.RecentQuestions == nil {
		return defaultRecentQuestions
	}
	return *c.RecentQuestions
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay. StrictTransitions can
// only be switched on by an overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.MinOutstanding != 0 {
		c.MinOutstanding = overlay.MinOutstanding
	}
	if overlay.RecentQuestions != nil {
		n := *overlay.RecentQuestions
		c.RecentQuestions = &n
	}
	if overlay.StrictTransitions {
		c.StrictTransitions = true
	}
}

func (c *Config) loadDefaults() {
	if c.MinOutstanding == 0 {
		c.MinOutstanding = 2
	}
	if c.RecentQuestions == nil {
		n := defaultRecentQuestions
		c.RecentQuestions = &n
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.MinOutstanding != "" {
		if v := os.Getenv(env.MinOutstanding); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.MinOutstanding = n
			}
		}
	}
	if env.RecentQuestions != "" {
		if v := os.Getenv(env.RecentQuestions); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.RecentQuestions = &n
			}
		}
	}
	if env.StrictTransitions != "" {
		if v := os.Getenv(env.StrictTransitions); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				c.StrictTransitions = b
			}
		}
	}
}

func (c *Config) validate() error {
	if c.MinOutstanding < 1 {
		return fmt.Errorf("min_outstanding must be positive")
	}
	if c.QuestionLimit() < 0 {
		return fmt.Errorf("recent_questions must not be negative")
	}
	return nil
}
