package questions

import (
	"net/url"
	"strconv"

	"github.com/JaimeStill/dossier/pkg/query"
	"github.com/JaimeStill/dossier/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "questions", "q").
	Project("id", "ID").
	Project("user_id", "UserID").
	Project("question", "Question").
	Project("answer", "Answer").
	Project("asked_at", "AskedAt").
	Project("answered_at", "AnsweredAt")

var defaultSort = query.SortField{
	Field:      "AskedAt",
	Descending: true,
}

const returning = `id, user_id, question, answer, asked_at, answered_at`

// Filters narrows question listings. Unanswered restricts to questions
// without an answer.
type Filters struct {
	UserID     *int64 `json:"user_id,omitempty"`
	Unanswered bool   `json:"unanswered,omitempty"`
}

func (f Filters) Apply(b *query.Builder) *query.Builder {
	b.WhereEquals("UserID", f.UserID)
	if f.Unanswered {
		b.WhereNullable("AnsweredAt", nil)
	}
	return b
}

func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if v := values.Get("user_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			f.UserID = &id
		}
	}

	f.Unanswered, _ = strconv.ParseBool(values.Get("unanswered"))

	return f
}

func scanQuestion(s repository.Scanner) (Question, error) {
	var q Question
	err := s.Scan(
		&q.ID,
		&q.UserID,
		&q.Question,
		&q.Answer,
		&q.AskedAt,
		&q.AnsweredAt,
	)
	return q, err
}
