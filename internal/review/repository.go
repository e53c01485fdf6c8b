package review

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/dossier/internal/documents"
	"github.com/JaimeStill/dossier/internal/faults"
	"github.com/JaimeStill/dossier/internal/users"
	"github.com/JaimeStill/dossier/pkg/repository"
)

const historyQuery = `
	SELECT COALESCE(json_agg(json_build_object(
		'id', o.id,
		'document_id', o.document_id,
		'description', rd.description,
		'content', o.content,
		'tag', o.tag,
		'emitter_id', o.emitter_id,
		'emitter', e.first_name || ' ' || e.last_name,
		'created_at', o.created_at
	) ORDER BY o.created_at DESC, o.id DESC), '[]'::json)
	FROM public.observations o
	JOIN public.required_documents rd ON rd.id = o.document_id
	JOIN public.users e ON e.id = o.emitter_id
	WHERE o.receiver_id = $1`

type repo struct {
	db        *sql.DB
	users     users.System
	documents documents.System
	cfg       Config
	logger    *slog.Logger
}

// New creates the review aggregation system.
func New(db *sql.DB, dir users.System, docs documents.System, cfg Config, logger *slog.Logger) System {
	return &repo{
		db:        db,
		users:     dir,
		documents: docs,
		cfg:       cfg,
		logger:    logger.With("system", "review"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) Snapshot(ctx context.Context, code string) (*Snapshot, error) {
	u, err := r.users.FindByCode(ctx, code)
	if err != nil {
		return nil, faults.Classify(err, faults.ErrTransactionFailure)
	}

	snap := &Snapshot{
		UserID:   u.ID,
		Code:     u.Code,
		FullName: u.DisplayName(),
		Email:    u.Email,
		Category: u.Category,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		q := "SELECT COUNT(*) FROM public.user_documents WHERE user_id = $1 AND state = $2"
		if err := r.db.QueryRowContext(gctx, q, u.ID, documents.Accepted).Scan(&snap.Accepted); err != nil {
			return fmt.Errorf("count accepted: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var history repository.JSON[[]HistoryEntry]
		if err := r.db.QueryRowContext(gctx, historyQuery, u.ID).Scan(&history); err != nil {
			return fmt.Errorf("load observation history: %w", err)
		}
		snap.Observations = history.V
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, faults.Classify(err, faults.ErrTransactionFailure)
	}

	if snap.Observations == nil {
		snap.Observations = []HistoryEntry{}
	}
	return snap, nil
}

func (r *repo) Worklist(ctx context.Context) ([]WorklistEntry, error) {
	pending, err := r.documents.ListPendingReview(ctx)
	if err != nil {
		return nil, faults.Classify(err, faults.ErrTransactionFailure)
	}

	entries := make([]WorklistEntry, len(pending))
	ids := make([]int64, len(pending))
	for i, p := range pending {
		entries[i] = WorklistEntry{
			UserID:    p.UserID,
			Code:      p.Code,
			FullName:  p.FullName,
			Category:  p.Category,
			Documents: p.Documents,
			Questions: []PendingQuestion{},
		}
		ids[i] = p.UserID
	}

	if len(ids) == 0 || r.cfg.QuestionLimit() == 0 {
		return entries, nil
	}

	recent, err := r.recentQuestions(ctx, ids)
	if err != nil {
		return nil, faults.Classify(err, faults.ErrTransactionFailure)
	}

	for i := range entries {
		if qs, ok := recent[entries[i].UserID]; ok {
			entries[i].Questions = qs
		}
	}
	return entries, nil
}

func (r *repo) recentQuestions(ctx context.Context, userIDs []int64) (map[int64][]PendingQuestion, error) {
	args := make([]any, 0, len(userIDs)+1)
	args = append(args, r.cfg.QuestionLimit())

	placeholders := make([]string, len(userIDs))
	for i, id := range userIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+2)
		args = append(args, id)
	}

	q := fmt.Sprintf(`
		SELECT user_id, id, question, asked_at
		FROM (
			SELECT q.user_id, q.id, q.question, q.asked_at,
				ROW_NUMBER() OVER (PARTITION BY q.user_id ORDER BY q.asked_at DESC, q.id DESC) AS rn
			FROM public.questions q
			WHERE q.answer IS NULL AND q.user_id IN (%s)
		) recent
		WHERE rn <= $1
		ORDER BY user_id, asked_at DESC, id DESC`, strings.Join(placeholders, ", "))

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query recent questions: %w", err)
	}
	defer rows.Close()

	out := make(map[int64][]PendingQuestion)
	for rows.Next() {
		var (
			userID int64
			pq     PendingQuestion
		)
		if err := rows.Scan(&userID, &pq.ID, &pq.Question, &pq.AskedAt); err != nil {
			return nil, fmt.Errorf("scan recent question: %w", err)
		}
		out[userID] = append(out[userID], pq)
	}
	return out, rows.Err()
}
