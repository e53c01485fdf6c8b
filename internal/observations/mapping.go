package observations

import (
	"net/url"
	"strconv"

	"github.com/JaimeStill/dossier/pkg/query"
	"github.com/JaimeStill/dossier/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "observations", "o").
	Project("id", "ID").
	Project("emitter_id", "EmitterID").
	Project("receiver_id", "ReceiverID").
	Project("document_id", "DocumentID").
	Project("content", "Content").
	Project("tag", "Tag").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

const insertObservation = `
	INSERT INTO public.observations (emitter_id, receiver_id, document_id, content, tag, created_at)
	VALUES ($1, $2, $3, $4, $5, NOW())
	RETURNING id, emitter_id, receiver_id, document_id, content, tag, created_at`

// Filters narrows receiver history. Nil fields are ignored.
type Filters struct {
	DocumentID *int64 `json:"document_id,omitempty"`
	EmitterID  *int64 `json:"emitter_id,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("DocumentID", f.DocumentID).
		WhereEquals("EmitterID", f.EmitterID)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if v := values.Get("document_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			f.DocumentID = &id
		}
	}

	if v := values.Get("emitter_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			f.EmitterID = &id
		}
	}

	return f
}

func scanObservation(s repository.Scanner) (Observation, error) {
	var o Observation
	err := s.Scan(
		&o.ID,
		&o.EmitterID,
		&o.ReceiverID,
		&o.DocumentID,
		&o.Content,
		&o.Tag,
		&o.CreatedAt,
	)
	return o, err
}
