package observations

import (
	"context"

	"github.com/JaimeStill/dossier/pkg/pagination"
)

// System defines the observation commit protocol and history queries.
type System interface {
	Handler() *Handler

	// Commit validates and atomically applies a batch. An empty batch
	// succeeds without touching the store. Batches are not idempotent.
	Commit(ctx context.Context, cmd CommitCommand) (*Result, error)

	ListForReceiver(
		ctx context.Context,
		receiverID int64,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Observation], error)
}
