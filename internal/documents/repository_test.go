package documents_test

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/dossier/internal/documents"
	"github.com/JaimeStill/dossier/internal/faults"
)

var docColumns = []string{
	"user_id", "document_id", "object_ref", "link", "state", "page_count", "created_at", "updated_at",
}

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newEngine(t *testing.T, policy documents.Policy) (documents.System, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return documents.New(db, logger, policy), mock
}

func docRow(userID, docID int64, ref, link any, state string) *sqlmock.Rows {
	return sqlmock.NewRows(docColumns).AddRow(userID, docID, ref, link, state, nil, now, now)
}

func TestRecordUploadCreatePath(t *testing.T) {
	sys, mock := newEngine(t, documents.Policy{MinOutstanding: 2})

	ref := "dossier-ana-ruiz-7/0f1e-f.pdf"
	link := "https://files.example.edu/api/storage/view?container=dossier-ana-ruiz-7&object=0f1e-f.pdf"

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO user_documents .* ON CONFLICT \(user_id, document_id\) DO UPDATE`).
		WithArgs(int64(7), int64(3), ref, link, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`UPDATE user_documents SET state = \$3`).
		WithArgs(int64(7), int64(3), "uploaded").
		WillReturnRows(docRow(7, 3, ref, link, "uploaded"))
	mock.ExpectCommit()

	d, err := sys.RecordUpload(context.Background(), documents.UploadRecord{
		UserID:     7,
		DocumentID: 3,
		ObjectRef:  ref,
		Link:       link,
	})
	require.NoError(t, err)
	require.Equal(t, documents.Uploaded, d.State)
	require.Equal(t, link, *d.Link)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordUploadUpdatePathGuarded(t *testing.T) {
	sys, mock := newEngine(t, documents.Policy{})

	prev := "dossier-ana-ruiz-7/0f1e-f.pdf"

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE user_documents\s+SET object_ref = \$3`).
		WithArgs(int64(7), int64(3), prev, "https://x/view?a", nil, prev).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := sys.RecordUpload(context.Background(), documents.UploadRecord{
		UserID:      7,
		DocumentID:  3,
		ObjectRef:   prev,
		Link:        "https://x/view?a",
		PreviousRef: &prev,
	})
	require.ErrorIs(t, err, documents.ErrRefMismatch)
	require.ErrorIs(t, err, faults.ErrInconsistentState)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordUploadRequiresReference(t *testing.T) {
	sys, mock := newEngine(t, documents.Policy{})

	_, err := sys.RecordUpload(context.Background(), documents.UploadRecord{UserID: 1, DocumentID: 1})
	require.ErrorIs(t, err, faults.ErrInvalidRequest)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionNotFound(t *testing.T) {
	sys, mock := newEngine(t, documents.Policy{})

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE user_documents SET state = \$3`).
		WithArgs(int64(7), int64(99), "submitted").
		WillReturnRows(sqlmock.NewRows(docColumns))
	mock.ExpectRollback()

	_, err := sys.Transition(context.Background(), 7, 99, documents.Submitted)
	require.ErrorIs(t, err, documents.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionUnguardedByDefault(t *testing.T) {
	sys, mock := newEngine(t, documents.Policy{})

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE user_documents SET state = \$3`).
		WithArgs(int64(7), int64(3), "empty").
		WillReturnRows(docRow(7, 3, nil, nil, "empty"))
	mock.ExpectCommit()

	d, err := sys.Transition(context.Background(), 7, 3, documents.Empty)
	require.NoError(t, err)
	require.Equal(t, documents.Empty, d.State)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionStrictRejectsIllegalMove(t *testing.T) {
	sys, mock := newEngine(t, documents.Policy{StrictTransitions: true})

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT state FROM user_documents WHERE user_id = \$1 AND document_id = \$2 FOR UPDATE`).
		WithArgs(int64(7), int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"state"}).AddRow("accepted"))
	mock.ExpectRollback()

	_, err := sys.Transition(context.Background(), 7, 3, documents.Uploaded)
	require.ErrorIs(t, err, documents.ErrIllegalTransition)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckTransition(t *testing.T) {
	loose, _ := newEngine(t, documents.Policy{})
	strict, _ := newEngine(t, documents.Policy{StrictTransitions: true})

	require.NoError(t, loose.CheckTransition(documents.Accepted, documents.Uploaded))
	require.ErrorIs(t, strict.CheckTransition(documents.Accepted, documents.Uploaded), documents.ErrIllegalTransition)
	require.NoError(t, strict.CheckTransition(documents.Rejected, documents.Uploaded))
	require.ErrorIs(t, loose.CheckTransition(documents.Empty, "gone"), faults.ErrInvalidRequest)
}

func TestApplyBatchSingleStatement(t *testing.T) {
	sys, mock := newEngine(t, documents.Policy{})

	expected := regexp.QuoteMeta(
		"UPDATE user_documents SET state = CASE document_id WHEN $2 THEN $3 WHEN $4 THEN $5 ELSE state END, updated_at = NOW() WHERE user_id = $1 AND document_id IN ($2, $4)",
	)

	mock.ExpectBegin()
	mock.ExpectExec(expected).
		WithArgs(int64(2), int64(1), "observed", int64(2), "accepted").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	err := sys.BatchTransition(context.Background(), 2, []documents.Change{
		{DocumentID: 1, State: documents.Observed},
		{DocumentID: 2, State: documents.Accepted},
		{DocumentID: 1, State: documents.Observed},
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyBatchRowMismatch(t *testing.T) {
	sys, mock := newEngine(t, documents.Policy{})

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE user_documents SET state = CASE document_id`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	err := sys.BatchTransition(context.Background(), 2, []documents.Change{
		{DocumentID: 1, State: documents.Observed},
		{DocumentID: 5, State: documents.Accepted},
	})
	require.ErrorIs(t, err, documents.ErrBatchMismatch)
	require.ErrorIs(t, err, faults.ErrInconsistentState)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyBatchConflictingTargets(t *testing.T) {
	sys, mock := newEngine(t, documents.Policy{})

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := sys.BatchTransition(context.Background(), 2, []documents.Change{
		{DocumentID: 1, State: documents.Observed},
		{DocumentID: 1, State: documents.Accepted},
	})
	require.ErrorIs(t, err, documents.ErrConflictingChange)
	require.ErrorIs(t, err, faults.ErrInvalidRequest)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchTransitionEmptyIssuesNoQueries(t *testing.T) {
	sys, mock := newEngine(t, documents.Policy{})

	require.NoError(t, sys.BatchTransition(context.Background(), 2, nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListPendingReviewThreshold(t *testing.T) {
	sys, mock := newEngine(t, documents.Policy{MinOutstanding: 2})

	docs := `[{"document_id":4,"description":"Birth certificate","state":"uploaded","link":null,"updated_at":"2026-03-01T12:00:00+00:00"},
		{"document_id":2,"description":"National ID","state":"corrected","link":"https://x/view?c=1","updated_at":"2026-02-27T08:30:00+00:00"}]`

	mock.ExpectQuery(`HAVING COUNT\(\*\) >= \$4`).
		WithArgs("submitted", "uploaded", "corrected", 2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "name", "category", "docs"}).
			AddRow(int64(7), "E2020-07", "Ana Ruiz", "egresado", []byte(docs)))

	pending, err := sys.ListPendingReview(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, "Ana Ruiz", pending[0].FullName)
	require.Len(t, pending[0].Documents, 2)
	require.Equal(t, documents.Uploaded, pending[0].Documents[0].State)
	require.True(t, pending[0].Documents[0].UpdatedAt.After(pending[0].Documents[1].UpdatedAt))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListForUserTolerantOfMissingRows(t *testing.T) {
	sys, mock := newEngine(t, documents.Policy{})

	mock.ExpectQuery(`SELECT id FROM public.users WHERE code = \$1`).
		WithArgs("E2020-07").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectQuery(`LEFT JOIN public.user_documents ud .* WHERE rd.procedure_type = \$2`).
		WithArgs(int64(7), "graduation").
		WillReturnRows(sqlmock.NewRows([]string{"id", "procedure_type", "description", "position", "state", "link", "updated_at", "items"}).
			AddRow(int64(1), "graduation", "National ID", 1, "empty", nil, nil, []byte(`[]`)).
			AddRow(int64(2), "graduation", "Transcript", 2, "uploaded", "https://x/view?o=1", now, []byte(`[{"id":1,"name":"Front"},{"id":2,"name":"Back"}]`)))

	reqs, err := sys.ListForUser(context.Background(), "E2020-07", "graduation")
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	require.Equal(t, documents.Empty, reqs[0].State)
	require.Nil(t, reqs[0].Link)
	require.Empty(t, reqs[0].Items)
	require.Len(t, reqs[1].Items, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListForUserUnknownCode(t *testing.T) {
	sys, mock := newEngine(t, documents.Policy{})

	mock.ExpectQuery(`SELECT id FROM public.users WHERE code = \$1`).
		WithArgs("nobody").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := sys.ListForUser(context.Background(), "nobody", "")
	require.ErrorIs(t, err, documents.ErrUserNotFound)
	require.ErrorIs(t, err, faults.ErrNotFound)
}

func TestListByStateRejectsUnknownState(t *testing.T) {
	sys, mock := newEngine(t, documents.Policy{})

	_, err := sys.ListByState(context.Background(), 7, "pending")
	require.ErrorIs(t, err, faults.ErrInvalidRequest)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListByState(t *testing.T) {
	sys, mock := newEngine(t, documents.Policy{})

	mock.ExpectQuery(`FROM public.user_documents ud WHERE ud.user_id = \$1 AND ud.state = \$2 ORDER BY ud.updated_at DESC`).
		WithArgs(int64(7), "observed").
		WillReturnRows(docRow(7, 3, "c/o", "https://x", "observed"))

	docs, err := sys.ListByState(context.Background(), 7, documents.Observed)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, documents.Observed, docs[0].State)
	require.NoError(t, mock.ExpectationsWereMet())
}
