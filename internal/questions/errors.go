package questions

import (
	"fmt"

	"github.com/JaimeStill/dossier/internal/faults"
)

var (
	ErrNotFound     = fmt.Errorf("question %w", faults.ErrNotFound)
	ErrUserNotFound = fmt.Errorf("question owner %w", faults.ErrNotFound)
	ErrDuplicate    = fmt.Errorf("question %w", faults.ErrAlreadyExists)
)
