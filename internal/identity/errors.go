package identity

import (
	"fmt"

	"github.com/JaimeStill/dossier/internal/faults"
)

var (
	ErrInvalidCredentials = fmt.Errorf("%w", faults.ErrInvalidCredentials)
	ErrInvalidToken       = fmt.Errorf("%w: invalid token", faults.ErrInvalidCredentials)
	ErrUserExists         = fmt.Errorf("user %w", faults.ErrAlreadyExists)
)
