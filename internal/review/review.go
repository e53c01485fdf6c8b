// Package review answers the reviewer's aggregate questions: what a single
// user's dossier looks like, and which users need attention next.
package review

import (
	"time"

	"github.com/JaimeStill/dossier/internal/documents"
)

// Snapshot summarizes one user's review progress.
type Snapshot struct {
	UserID       int64          `json:"user_id"`
	Code         string         `json:"code"`
	FullName     string         `json:"full_name"`
	Email        string         `json:"email"`
	Category     string         `json:"category"`
	Accepted     int            `json:"accepted"`
	Observations []HistoryEntry `json:"observations"`
}

// HistoryEntry is one observation received by the user, newest first.
type HistoryEntry struct {
	ID          int64     `json:"id"`
	DocumentID  int64     `json:"document_id"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	Tag         string    `json:"tag"`
	EmitterID   int64     `json:"emitter_id"`
	Emitter     string    `json:"emitter"`
	CreatedAt   time.Time `json:"created_at"`
}

// WorklistEntry is a user with enough outstanding documents to review.
type WorklistEntry struct {
	UserID    int64                       `json:"user_id"`
	Code      string                      `json:"code"`
	FullName  string                      `json:"full_name"`
	Category  string                      `json:"category"`
	Documents []documents.PendingDocument `json:"documents"`
	Questions []PendingQuestion           `json:"questions"`
}

// PendingQuestion is an unanswered question shown beside a worklist entry.
type PendingQuestion struct {
	ID       int64     `json:"id"`
	Question string    `json:"question"`
	AskedAt  time.Time `json:"asked_at"`
}
