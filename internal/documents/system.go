package documents

import (
	"context"

	"github.com/JaimeStill/dossier/pkg/repository"
)

// System defines the public contract for the document state engine.
type System interface {
	Handler() *Handler

	Find(ctx context.Context, userID, documentID int64) (*UserDocument, error)

	// Transition sets the state of one pair. It does not consult the prior
	// state unless the policy enables strict transitions.
	Transition(ctx context.Context, userID, documentID int64, to State) (*UserDocument, error)

	// BatchTransition applies changes for one user in a single statement
	// inside its own transaction.
	BatchTransition(ctx context.Context, userID int64, changes []Change) error

	// ApplyBatch runs the batched update on h, typically a caller's
	// transaction. It returns the number of distinct pairs updated.
	ApplyBatch(ctx context.Context, h repository.Handle, userID int64, changes []Change) (int64, error)

	// CheckTransition returns ErrIllegalTransition when strict transitions
	// are enabled and from -> to is not allowed.
	CheckTransition(from, to State) error

	// RecordUpload persists a remote write outcome and transitions the pair
	// to Uploaded in one transaction.
	RecordUpload(ctx context.Context, rec UploadRecord) (*UserDocument, error)

	ListByState(ctx context.Context, userID int64, state State) ([]UserDocument, error)
	ListPendingReview(ctx context.Context) ([]PendingUser, error)
	ListForUser(ctx context.Context, code, procedureType string) ([]Requirement, error)
}
