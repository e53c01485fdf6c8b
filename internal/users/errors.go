package users

import (
	"fmt"

	"github.com/JaimeStill/dossier/internal/faults"
)

var (
	ErrNotFound  = fmt.Errorf("user %w", faults.ErrNotFound)
	ErrDuplicate = fmt.Errorf("user %w", faults.ErrAlreadyExists)
	// ErrContainerConflict means another writer set a different container
	// reference between our lock and our write.
	ErrContainerConflict = fmt.Errorf("container reference %w", faults.ErrInconsistentState)
)
