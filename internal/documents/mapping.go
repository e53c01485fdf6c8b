package documents

import (
	"fmt"
	"strings"

	"github.com/JaimeStill/dossier/pkg/query"
	"github.com/JaimeStill/dossier/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "user_documents", "ud").
	Project("user_id", "UserID").
	Project("document_id", "DocumentID").
	Project("object_ref", "ObjectRef").
	Project("link", "Link").
	Project("state", "State").
	Project("page_count", "PageCount").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "UpdatedAt",
	Descending: true,
}

const returning = `RETURNING user_id, document_id, object_ref, link, state, page_count, created_at, updated_at`

func scanUserDocument(s repository.Scanner) (UserDocument, error) {
	var d UserDocument
	err := s.Scan(
		&d.UserID,
		&d.DocumentID,
		&d.ObjectRef,
		&d.Link,
		&d.State,
		&d.PageCount,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	return d, err
}

func scanRequirement(s repository.Scanner) (Requirement, error) {
	var (
		r     Requirement
		items repository.JSON[[]RequirementItem]
	)
	err := s.Scan(
		&r.ID,
		&r.ProcedureType,
		&r.Description,
		&r.Position,
		&r.State,
		&r.Link,
		&r.UpdatedAt,
		&items,
	)
	r.Items = items.V
	if r.Items == nil {
		r.Items = []RequirementItem{}
	}
	return r, err
}

func scanPendingUser(s repository.Scanner) (PendingUser, error) {
	var (
		p    PendingUser
		docs repository.JSON[[]PendingDocument]
	)
	err := s.Scan(
		&p.UserID,
		&p.Code,
		&p.FullName,
		&p.Category,
		&docs,
	)
	p.Documents = docs.V
	return p, err
}

// dedupe collapses repeated document ids. A document listed twice with the
// same target is applied once; different targets are rejected.
func dedupe(changes []Change) ([]Change, error) {
	seen := make(map[int64]State, len(changes))
	out := make([]Change, 0, len(changes))

	for _, c := range changes {
		if prev, ok := seen[c.DocumentID]; ok {
			if prev != c.State {
				return nil, fmt.Errorf("%w: document %d", ErrConflictingChange, c.DocumentID)
			}
			continue
		}
		seen[c.DocumentID] = c.State
		out = append(out, c)
	}

	return out, nil
}

// batchUpdate builds one conditional UPDATE setting each document to its
// own target state, restricted to userID and the listed ids.
func batchUpdate(userID int64, changes []Change) (string, []any) {
	args := make([]any, 0, 1+2*len(changes))
	args = append(args, userID)

	cases := make([]string, len(changes))
	ids := make([]string, len(changes))

	for i, c := range changes {
		idParam := len(args) + 1
		args = append(args, c.DocumentID, c.State)
		cases[i] = fmt.Sprintf("WHEN $%d THEN $%d", idParam, idParam+1)
		ids[i] = fmt.Sprintf("$%d", idParam)
	}

	q := fmt.Sprintf(
		"UPDATE user_documents SET state = CASE document_id %s ELSE state END, updated_at = NOW() WHERE user_id = $1 AND document_id IN (%s)",
		strings.Join(cases, " "),
		strings.Join(ids, ", "),
	)

	return q, args
}
