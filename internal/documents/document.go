// Package documents is the document state engine. It owns every write to
// user_documents: upload outcomes and reviewer observation batches both
// transition state through this package.
package documents

import "time"

// UserDocument tracks one required document's submission state for one user.
// ObjectRef and Link stay nil until the first successful upload.
type UserDocument struct {
	UserID     int64     `json:"user_id"`
	DocumentID int64     `json:"document_id"`
	ObjectRef  *string   `json:"object_ref"`
	Link       *string   `json:"link"`
	State      State     `json:"state"`
	PageCount  *int      `json:"page_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Requirement is a catalog entry joined with the user's progress on it.
// State is Empty and Link nil when the user has not touched the document.
type Requirement struct {
	ID            int64             `json:"id"`
	ProcedureType string            `json:"procedure_type"`
	Description   string            `json:"description"`
	Position      int               `json:"position"`
	State         State             `json:"state"`
	Link          *string           `json:"link"`
	UpdatedAt     *time.Time        `json:"updated_at"`
	Items         []RequirementItem `json:"items"`
}

// RequirementItem is an ordered sub-requirement of a catalog entry.
type RequirementItem struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Change sets one document of a batch to its own target state.
type Change struct {
	DocumentID int64 `json:"document_id"`
	State      State `json:"state"`
}

// UploadRecord is the local outcome of a successful remote write.
// PreviousRef is the reference the caller observed before writing; a
// non-nil value selects the guarded update path.
type UploadRecord struct {
	UserID      int64
	DocumentID  int64
	ObjectRef   string
	Link        string
	PageCount   *int
	PreviousRef *string
}

// PendingUser groups a user's documents awaiting review.
type PendingUser struct {
	UserID    int64             `json:"user_id"`
	Code      string            `json:"code"`
	FullName  string            `json:"full_name"`
	Category  string            `json:"category"`
	Documents []PendingDocument `json:"documents"`
}

// PendingDocument is one document awaiting review.
type PendingDocument struct {
	DocumentID  int64     `json:"document_id"`
	Description string    `json:"description"`
	State       State     `json:"state"`
	Link        *string   `json:"link"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Policy holds the review rules applied by the engine.
type Policy struct {
	// MinOutstanding is the smallest number of awaiting-review documents a
	// user needs before appearing in pending listings.
	MinOutstanding int
	// StrictTransitions rejects moves the transition table does not allow.
	// Off by default: any state may be set from any state.
	StrictTransitions bool
}
