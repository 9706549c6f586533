package models

import (
	"encoding/json"
	"time"
)

// QuestionSet is the shared shape of review and registration question sets.
type QuestionSet struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Questions json.RawMessage `json:"questions"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// ReviewQuestionSet holds the questions reviewers score submissions against.
type ReviewQuestionSet struct {
	QuestionSet
}

// RegistrationQuestionSet holds the questions answered at registration time.
type RegistrationQuestionSet struct {
	QuestionSet
}

func questionSetSchema[T any](table string, of func(*T) *QuestionSet) Schema[T] {
	return Schema[T]{
		Table:     table,
		Key:       "id",
		AutoKey:   true,
		Columns:   []string{"name", "questions"},
		CreatedAt: "createdAt",
		UpdatedAt: "updatedAt",
		Targets: func(t *T) []any {
			q := of(t)
			return []any{&q.ID, &q.Name, &q.Questions, &q.CreatedAt, &q.UpdatedAt}
		},
		Values: func(t *T) []any {
			q := of(t)
			return []any{q.Name, q.Questions}
		},
		KeyOf: func(t *T) any { return of(t).ID },
	}
}

var ReviewQuestionSetSchema = questionSetSchema("review_question_sets",
	func(r *ReviewQuestionSet) *QuestionSet { return &r.QuestionSet })

var RegistrationQuestionSetSchema = questionSetSchema("registration_question_sets",
	func(r *RegistrationQuestionSet) *QuestionSet { return &r.QuestionSet })
