package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/dossier/internal/faults"
	"github.com/JaimeStill/dossier/pkg/query"
	"github.com/JaimeStill/dossier/pkg/repository"
)

type repo struct {
	db     *sql.DB
	logger *slog.Logger
	policy Policy
}

// New creates a document state engine implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, policy Policy) System {
	if policy.MinOutstanding < 1 {
		policy.MinOutstanding = 1
	}
	return &repo{
		db:     db,
		logger: logger.With("system", "documents"),
		policy: policy,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) Find(ctx context.Context, userID, documentID int64) (*UserDocument, error) {
	q, args := query.
		NewBuilder(projection).
		WhereEquals("UserID", userID).
		WhereEquals("DocumentID", documentID).
		BuildSingleOrNull()

	d, err := repository.QueryOne(ctx, r.db, q, args, scanUserDocument)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &d, nil
}

func (r *repo) CheckTransition(from, to State) error {
	if !to.Valid() {
		return fmt.Errorf("%w: unknown state %q", faults.ErrInvalidRequest, to)
	}
	if r.policy.StrictTransitions && !from.CanTransition(to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, to)
	}
	return nil
}

func (r *repo) Transition(ctx context.Context, userID, documentID int64, to State) (*UserDocument, error) {
	if !to.Valid() {
		return nil, fmt.Errorf("%w: unknown state %q", faults.ErrInvalidRequest, to)
	}

	d, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (UserDocument, error) {
		return r.transition(ctx, tx, userID, documentID, to)
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("document transitioned", "user_id", userID, "document_id", documentID, "state", to)
	return &d, nil
}

func (r *repo) transition(ctx context.Context, h repository.Handle, userID, documentID int64, to State) (UserDocument, error) {
	if r.policy.StrictTransitions {
		var from State
		err := h.QueryRowContext(
			ctx,
			"SELECT state FROM user_documents WHERE user_id = $1 AND document_id = $2 FOR UPDATE",
			userID, documentID,
		).Scan(&from)
		if err != nil {
			return UserDocument{}, repository.MapError(err, ErrNotFound, ErrDuplicate)
		}
		if err := r.CheckTransition(from, to); err != nil {
			return UserDocument{}, err
		}
	}

	q := `UPDATE user_documents SET state = $3, updated_at = NOW()
		WHERE user_id = $1 AND document_id = $2 ` + returning

	d, err := repository.QueryOne(ctx, h, q, []any{userID, documentID, to}, scanUserDocument)
	if err != nil {
		return UserDocument{}, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return d, nil
}

func (r *repo) BatchTransition(ctx context.Context, userID int64, changes []Change) error {
	if len(changes) == 0 {
		return nil
	}

	n, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (int64, error) {
		return r.ApplyBatch(ctx, tx, userID, changes)
	})
	if err != nil {
		return err
	}

	r.logger.Info("batch transitioned", "user_id", userID, "documents", n)
	return nil
}

func (r *repo) ApplyBatch(ctx context.Context, h repository.Handle, userID int64, changes []Change) (int64, error) {
	distinct, err := dedupe(changes)
	if err != nil {
		return 0, err
	}
	if len(distinct) == 0 {
		return 0, nil
	}

	for _, c := range distinct {
		if !c.State.Valid() {
			return 0, fmt.Errorf("%w: unknown state %q", faults.ErrInvalidRequest, c.State)
		}
	}

	if r.policy.StrictTransitions {
		if err := r.checkBatch(ctx, h, userID, distinct); err != nil {
			return 0, err
		}
	}

	q, args := batchUpdate(userID, distinct)
	n, err := repository.ExecAffected(ctx, h, q, args...)
	if err != nil {
		return 0, fmt.Errorf("batch update: %w", err)
	}

	if n != int64(len(distinct)) {
		r.logger.Error(
			"batch transition row mismatch",
			"user_id", userID,
			"expected", len(distinct),
			"affected", n,
			"alert", faults.AlertDataIntegrity,
		)
		return 0, fmt.Errorf("%w: expected %d, affected %d", ErrBatchMismatch, len(distinct), n)
	}

	return n, nil
}

func (r *repo) checkBatch(ctx context.Context, h repository.Handle, userID int64, changes []Change) error {
	ids := make([]any, len(changes))
	for i, c := range changes {
		ids[i] = c.DocumentID
	}

	q, args := query.
		NewBuilder(projection).
		WhereEquals("UserID", userID).
		WhereIn("DocumentID", ids).
		Build()

	current, err := repository.QueryMany(ctx, h, q+" FOR UPDATE", args, scanUserDocument)
	if err != nil {
		return fmt.Errorf("load batch states: %w", err)
	}

	states := make(map[int64]State, len(current))
	for _, d := range current {
		states[d.DocumentID] = d.State
	}

	for _, c := range changes {
		from, ok := states[c.DocumentID]
		if !ok {
			return fmt.Errorf("%w: document %d", ErrNotFound, c.DocumentID)
		}
		if err := r.CheckTransition(from, c.State); err != nil {
			return err
		}
	}
	return nil
}

func (r *repo) RecordUpload(ctx context.Context, rec UploadRecord) (*UserDocument, error) {
	if rec.ObjectRef == "" || rec.Link == "" {
		return nil, fmt.Errorf("%w: upload record requires object reference and link", faults.ErrInvalidRequest)
	}

	d, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (UserDocument, error) {
		if err := r.upsertUpload(ctx, tx, rec); err != nil {
			return UserDocument{}, err
		}
		return r.transition(ctx, tx, rec.UserID, rec.DocumentID, Uploaded)
	})

	if err != nil {
		if errors.Is(err, faults.ErrInconsistentState) {
			r.logger.Error(
				"upload record rejected",
				"user_id", rec.UserID,
				"document_id", rec.DocumentID,
				"object_ref", rec.ObjectRef,
				"alert", faults.AlertDataIntegrity,
				"error", err,
			)
		}
		return nil, err
	}

	r.logger.Info("upload recorded", "user_id", rec.UserID, "document_id", rec.DocumentID, "object_ref", rec.ObjectRef)
	return &d, nil
}

// upsertUpload writes the reference and link for the pair. The insert path
// resolves same-pair races at the primary key; the update path is guarded on
// the reference the caller observed before the remote write.
func (r *repo) upsertUpload(ctx context.Context, h repository.Handle, rec UploadRecord) error {
	if rec.PreviousRef == nil {
		_, err := repository.ExecAffected(
			ctx, h,
			`INSERT INTO user_documents (user_id, document_id, object_ref, link, page_count, state)
			VALUES ($1, $2, $3, $4, $5, 'empty')
			ON CONFLICT (user_id, document_id) DO UPDATE
			SET object_ref = EXCLUDED.object_ref,
				link = EXCLUDED.link,
				page_count = EXCLUDED.page_count,
				updated_at = NOW()`,
			rec.UserID, rec.DocumentID, rec.ObjectRef, rec.Link, rec.PageCount,
		)
		if err != nil {
			return repository.MapError(err, ErrUserNotFound, ErrDuplicate)
		}
		return nil
	}

	err := repository.ExecExpectOne(
		ctx, h,
		`UPDATE user_documents
		SET object_ref = $3, link = $4, page_count = $5, updated_at = NOW()
		WHERE user_id = $1 AND document_id = $2 AND object_ref = $6`,
		rec.UserID, rec.DocumentID, rec.ObjectRef, rec.Link, rec.PageCount, *rec.PreviousRef,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: user %d document %d", ErrRefMismatch, rec.UserID, rec.DocumentID)
	}
	return err
}

func (r *repo) ListByState(ctx context.Context, userID int64, state State) ([]UserDocument, error) {
	if !state.Valid() {
		return nil, fmt.Errorf("%w: unknown state %q", faults.ErrInvalidRequest, state)
	}

	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("UserID", userID).
		WhereEquals("State", state).
		Build()

	docs, err := repository.QueryMany(ctx, r.db, q, args, scanUserDocument)
	if err != nil {
		return nil, fmt.Errorf("query documents by state: %w", err)
	}
	return docs, nil
}

func (r *repo) ListPendingReview(ctx context.Context) ([]PendingUser, error) {
	q := `
		SELECT u.id, u.code, u.first_name || ' ' || u.last_name, u.category,
			json_agg(json_build_object(
				'document_id', ud.document_id,
				'description', rd.description,
				'state', ud.state,
				'link', ud.link,
				'updated_at', ud.updated_at
			) ORDER BY ud.updated_at DESC)
		FROM public.user_documents ud
		JOIN public.users u ON u.id = ud.user_id
		JOIN public.required_documents rd ON rd.id = ud.document_id
		WHERE ud.state IN ($1, $2, $3)
		GROUP BY u.id, u.code, u.first_name, u.last_name, u.category
		HAVING COUNT(*) >= $4
		ORDER BY MAX(ud.updated_at) DESC`

	args := []any{Submitted, Uploaded, Corrected, r.policy.MinOutstanding}

	pending, err := repository.QueryMany(ctx, r.db, q, args, scanPendingUser)
	if err != nil {
		return nil, fmt.Errorf("query pending review: %w", err)
	}
	return pending, nil
}

func (r *repo) ListForUser(ctx context.Context, code, procedureType string) ([]Requirement, error) {
	var userID int64
	err := r.db.QueryRowContext(ctx, "SELECT id FROM public.users WHERE code = $1", code).Scan(&userID)
	if err != nil {
		return nil, repository.MapError(err, ErrUserNotFound, ErrDuplicate)
	}

	q := `
		SELECT rd.id, rd.procedure_type, rd.description, rd.position,
			COALESCE(ud.state, 'empty'), ud.link, ud.updated_at,
			COALESCE((
				SELECT json_agg(json_build_object('id', i.id, 'name', i.name) ORDER BY i.position)
				FROM public.required_document_items i
				WHERE i.document_id = rd.id
			), '[]'::json)
		FROM public.required_documents rd
		LEFT JOIN public.user_documents ud ON ud.document_id = rd.id AND ud.user_id = $1`
	args := []any{userID}

	if procedureType != "" {
		q += " WHERE rd.procedure_type = $2"
		args = append(args, procedureType)
	}
	q += " ORDER BY rd.position, rd.id"

	reqs, err := repository.QueryMany(ctx, r.db, q, args, scanRequirement)
	if err != nil {
		return nil, fmt.Errorf("query documents for user: %w", err)
	}
	return reqs, nil
}
