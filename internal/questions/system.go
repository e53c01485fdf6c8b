package questions

import (
	"context"

	"github.com/JaimeStill/dossier/pkg/pagination"
)

// System defines the question store.
type System interface {
	Handler() *Handler

	Create(ctx context.Context, cmd CreateCommand) (*Question, error)
	Patch(ctx context.Context, id int64, cmd PatchCommand) (*Question, error)
	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Question], error)
}
