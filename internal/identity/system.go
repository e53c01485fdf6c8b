package identity

import (
	"context"
	"net/http"
)

// System issues and verifies credentials.
type System interface {
	Handler() *Handler

	// Login authenticates by email or user code.
	Login(ctx context.Context, cmd LoginCommand) (*Session, error)
	Register(ctx context.Context, cmd RegisterCommand) (*Session, error)
	// Verify parses a bearer token into its actor.
	Verify(token string) (Actor, error)

	// Middleware attaches the bearer token's actor to the request context.
	// Requests without a token pass through anonymously; an invalid token
	// is rejected with 401.
	Middleware() func(http.Handler) http.Handler
}
