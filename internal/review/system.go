package review

import "context"

// System defines the read-only review aggregations.
type System interface {
	Handler() *Handler

	Snapshot(ctx context.Context, code string) (*Snapshot, error)
	Worklist(ctx context.Context) ([]WorklistEntry, error)
}
