package observations

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/dossier/internal/documents"
	"github.com/JaimeStill/dossier/internal/faults"
	"github.com/JaimeStill/dossier/pkg/pagination"
	"github.com/JaimeStill/dossier/pkg/query"
	"github.com/JaimeStill/dossier/pkg/repository"
)

var (
	errNotFound  = fmt.Errorf("observation target %w", faults.ErrNotFound)
	errDuplicate = fmt.Errorf("observation %w", faults.ErrAlreadyExists)
)

type repo struct {
	db         *sql.DB
	documents  documents.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates an observation processor implementing the System interface.
func New(
	db *sql.DB,
	docs documents.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		documents:  docs,
		logger:     logger.With("system", "observations"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) Commit(ctx context.Context, cmd CommitCommand) (*Result, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if len(cmd.Items) == 0 {
		return &Result{Observations: []Observation{}}, nil
	}

	result, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (*Result, error) {
		res := &Result{Observations: make([]Observation, 0, len(cmd.Items))}

		for _, item := range cmd.Items {
			o, err := repository.QueryOne(
				ctx, tx, insertObservation,
				[]any{cmd.EmitterID, cmd.ReceiverID, item.DocumentID, item.Content, Tag},
				scanObservation,
			)
			if err != nil {
				return nil, fmt.Errorf("insert observation for document %d: %w", item.DocumentID, repository.MapError(err, errNotFound, errDuplicate))
			}
			res.Observations = append(res.Observations, o)
		}

		n, err := r.documents.ApplyBatch(ctx, tx, cmd.ReceiverID, cmd.changes())
		if err != nil {
			return nil, fmt.Errorf("apply states: %w", err)
		}
		res.Updated = n

		return res, nil
	})

	if err != nil {
		r.logger.Warn(
			"observation batch rolled back",
			"emitter_id", cmd.EmitterID,
			"receiver_id", cmd.ReceiverID,
			"items", len(cmd.Items),
			"error", err,
		)
		return nil, faults.Wrap(faults.ErrTransactionFailure, err)
	}

	r.logger.Info(
		"observation batch committed",
		"emitter_id", cmd.EmitterID,
		"receiver_id", cmd.ReceiverID,
		"observations", len(result.Observations),
		"updated", result.Updated,
	)
	return result, nil
}

func (r *repo) ListForReceiver(
	ctx context.Context,
	receiverID int64,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Observation], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("ReceiverID", receiverID).
		WhereSearch(page.Search, "Content")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count observations: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanObservation)
	if err != nil {
		return nil, fmt.Errorf("query observations: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}
