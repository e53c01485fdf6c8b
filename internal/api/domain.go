package api

import (
	"fmt"

	"github.com/JaimeStill/dossier/internal/config"
	"github.com/JaimeStill/dossier/internal/documents"
	"github.com/JaimeStill/dossier/internal/identity"
	"github.com/JaimeStill/dossier/internal/observations"
	"github.com/JaimeStill/dossier/internal/questions"
	"github.com/JaimeStill/dossier/internal/review"
	"github.com/JaimeStill/dossier/internal/submissions"
	"github.com/JaimeStill/dossier/internal/users"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Identity     identity.System
	Users        users.System
	Documents    documents.System
	Submissions  *submissions.Coordinator
	Observations observations.System
	Questions    questions.System
	Review       review.System
}

// NewDomain creates all domain systems from the API runtime. Every system
// shares the runtime's connection pool.
func NewDomain(cfg *config.Config, runtime *Runtime) (*Domain, error) {
	db := runtime.Database.Connection()

	identitySystem, err := identity.New(db, &cfg.Auth, runtime.Logger)
	if err != nil {
		return nil, fmt.Errorf("identity init failed: %w", err)
	}

	usersSystem := users.New(db, runtime.Logger)
	docsSystem := documents.New(db, runtime.Logger, runtime.Review.Policy())

	return &Domain{
		Identity:  identitySystem,
		Users:     usersSystem,
		Documents: docsSystem,
		Submissions: submissions.New(
			usersSystem,
			docsSystem,
			runtime.Storage,
			runtime.ContainerPrefix,
			runtime.Logger,
		),
		Observations: observations.New(db, docsSystem, runtime.Logger, runtime.Pagination),
		Questions:    questions.New(db, runtime.Logger, runtime.Pagination),
		Review:       review.New(db, usersSystem, docsSystem, runtime.Review, runtime.Logger),
	}, nil
}
