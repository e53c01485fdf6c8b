// Package questions stores the questions users raise about their dossier
// and the reviewer answers to them.
package questions

import (
	"fmt"
	"strings"
	"time"

	"github.com/JaimeStill/dossier/internal/faults"
)

type Question struct {
	ID         int64      `json:"id"`
	UserID     int64      `json:"user_id"`
	Question   string     `json:"question"`
	Answer     *string    `json:"answer,omitempty"`
	AskedAt    time.Time  `json:"asked_at"`
	AnsweredAt *time.Time `json:"answered_at,omitempty"`
}

type CreateCommand struct {
	UserID   int64  `json:"user_id"`
	Question string `json:"question"`
}

func (c *CreateCommand) Validate() error {
	c.Question = strings.TrimSpace(c.Question)
	if c.UserID < 1 {
		return fmt.Errorf("%w: user id required", faults.ErrInvalidRequest)
	}
	if c.Question == "" {
		return fmt.Errorf("%w: question is empty", faults.ErrInvalidRequest)
	}
	return nil
}

// PatchCommand updates the question text, the answer, or both. Nil fields
// are left unchanged. Setting an answer stamps the answer time.
type PatchCommand struct {
	Question *string `json:"question,omitempty"`
	Answer   *string `json:"answer,omitempty"`
}

func (c *PatchCommand) Validate() error {
	if c.Question == nil && c.Answer == nil {
		return fmt.Errorf("%w: nothing to update", faults.ErrInvalidRequest)
	}
	if c.Question != nil {
		q := strings.TrimSpace(*c.Question)
		if q == "" {
			return fmt.Errorf("%w: question is empty", faults.ErrInvalidRequest)
		}
		c.Question = &q
	}
	if c.Answer != nil {
		a := strings.TrimSpace(*c.Answer)
		if a == "" {
			return fmt.Errorf("%w: answer is empty", faults.ErrInvalidRequest)
		}
		c.Answer = &a
	}
	return nil
}
