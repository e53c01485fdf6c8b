package users

import "context"

// System defines the directory lookups and the one-shot container assignment.
type System interface {
	Find(ctx context.Context, id int64) (*User, error)
	FindByCode(ctx context.Context, code string) (*User, error)

	// EnsureContainer returns the user's container reference, calling
	// provision to create one only when none is stored yet. Concurrent calls
	// for the same user provision at most once.
	EnsureContainer(ctx context.Context, id int64, provision Provisioner) (ref string, created bool, err error)
}
