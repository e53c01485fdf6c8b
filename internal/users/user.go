// Package users is the user directory: identity, display name, and the
// per-user storage container reference.
package users

import (
	"context"
	"strings"
	"time"
)

// User is a registered graduate, student, or reviewer.
// ContainerRef is nil until the user's first upload provisions a container;
// once set it is never overwritten.
type User struct {
	ID           int64     `json:"id"`
	Code         string    `json:"code"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	Phone        *string   `json:"phone"`
	Role         string    `json:"role"`
	Category     string    `json:"category"`
	ContainerRef *string   `json:"container_ref"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DisplayName returns "first last", trimmed.
func (u User) DisplayName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Provisioner creates the remote container for u and returns its reference.
type Provisioner func(ctx context.Context, u User) (string, error)
