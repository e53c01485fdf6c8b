// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, database, storage) that domain systems require.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/JaimeStill/dossier/internal/config"
	"github.com/JaimeStill/dossier/pkg/database"
	"github.com/JaimeStill/dossier/pkg/lifecycle"
	"github.com/JaimeStill/dossier/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil)).With(
		"service", "dossier",
		"env", cfg.Env(),
	)

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Storage:   store,
	}, nil
}

// Start registers database and storage hooks with the lifecycle coordinator
// and tracks database readiness.
func (i *Infrastructure) Start() error {
	i.Lifecycle.Track("database", i.Database)

	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	return nil
}

// Ready reports whether startup completed and the database is reachable.
func (i *Infrastructure) Ready() bool {
	return len(i.Pending()) == 0
}

// Pending names the subsystems not yet ready.
func (i *Infrastructure) Pending() []string {
	pending := i.Lifecycle.Pending()
	if !i.Database.Ready() && !slices.Contains(pending, "database") {
		pending = append(pending, "database")
	}
	return pending
}
