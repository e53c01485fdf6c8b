package questions

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/dossier/pkg/pagination"
	"github.com/JaimeStill/dossier/pkg/query"
	"github.com/JaimeStill/dossier/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a question store implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "questions"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Question, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	q := `
		INSERT INTO public.questions (user_id, question, asked_at)
		VALUES ($1, $2, NOW())
		RETURNING ` + returning

	out, err := repository.QueryOne(ctx, r.db, q, []any{cmd.UserID, cmd.Question}, scanQuestion)
	if err != nil {
		return nil, repository.MapError(err, ErrUserNotFound, ErrDuplicate)
	}

	r.logger.Info("question created", "id", out.ID, "user_id", out.UserID)
	return &out, nil
}

func (r *repo) Patch(ctx context.Context, id int64, cmd PatchCommand) (*Question, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	q := `
		UPDATE public.questions
		SET question = COALESCE($2, question),
			answer = COALESCE($3, answer),
			answered_at = CASE WHEN $3::text IS NULL THEN answered_at ELSE NOW() END
		WHERE id = $1
		RETURNING ` + returning

	out, err := repository.QueryOne(ctx, r.db, q, []any{id, cmd.Question, cmd.Answer}, scanQuestion)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("question patched", "id", out.ID, "answered", out.Answer != nil)
	return &out, nil
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Question], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Question", "Answer")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanQuestion)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}
