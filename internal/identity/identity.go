// Package identity issues and verifies actor credentials. The workflow
// packages only see the resulting Actor: an id, a role, and a category.
package identity

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"github.com/JaimeStill/dossier/internal/faults"
)

// Roles accepted at registration.
const (
	RoleAdmin    = "admin"
	RoleReviewer = "reviewer"
	RoleStudent  = "student"
	RoleGraduate = "graduate"
)

var roles = []string{RoleAdmin, RoleReviewer, RoleStudent, RoleGraduate}

// Actor is the authenticated principal attached to a request.
type Actor struct {
	ID       int64  `json:"id"`
	Role     string `json:"role"`
	Category string `json:"category"`
}

// Reviewer reports whether the actor may review other users' documents.
func (a Actor) Reviewer() bool {
	return a.Role == RoleReviewer || a.Role == RoleAdmin
}

// Session is the result of a successful login or registration.
type Session struct {
	Actor     Actor     `json:"actor"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// LoginCommand carries a credential (email or user code) and password.
type LoginCommand struct {
	Credential string `json:"credential"`
	Password   string `json:"password"`
}

// RegisterCommand carries the data for a new user.
type RegisterCommand struct {
	Code      string `json:"code"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	Category  string `json:"category"`
}

// Validate checks registration input.
func (c *RegisterCommand) Validate() error {
	c.Code = strings.TrimSpace(c.Code)
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.LastName = strings.TrimSpace(c.LastName)
	c.Email = strings.TrimSpace(c.Email)

	switch {
	case c.Code == "":
		return fmt.Errorf("%w: code required", faults.ErrInvalidRequest)
	case len(c.FirstName) < 3, len(c.LastName) < 3:
		return fmt.Errorf("%w: names must be at least 3 characters", faults.ErrInvalidRequest)
	}

	if _, err := mail.ParseAddress(c.Email); err != nil {
		return fmt.Errorf("%w: invalid email", faults.ErrInvalidRequest)
	}
	if err := validatePassword(c.Password); err != nil {
		return err
	}

	valid := false
	for _, r := range roles {
		if c.Role == r {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("%w: unknown role %q", faults.ErrInvalidRequest, c.Role)
	}
	return nil
}

func validatePassword(p string) error {
	if len(p) < 6 || len(p) > 60 {
		return fmt.Errorf("%w: password must be 6 to 60 characters", faults.ErrInvalidRequest)
	}

	var upper, lower, digit bool
	for _, r := range p {
		switch {
		case unicode.IsSpace(r):
			return fmt.Errorf("%w: password must not contain spaces", faults.ErrInvalidRequest)
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}

	if !upper || !lower || !digit {
		return fmt.Errorf("%w: password needs mixed case and a digit", faults.ErrInvalidRequest)
	}
	return nil
}

type actorKey struct{}

// WithActor returns a copy of ctx carrying a.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// ActorFrom returns the actor stored in ctx, if any.
func ActorFrom(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(Actor)
	return a, ok
}
