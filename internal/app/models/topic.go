package models

import (
	"encoding/json"
	"time"
)

// Topic is a project proposal open for registration. SecretLink lets the
// proposer edit the content without an account.
type Topic struct {
	ID         int64           `json:"topic_id"`
	Active     bool            `json:"active"`
	Content    json.RawMessage `json:"content"`
	Acronym    *string         `json:"acronym"`
	SecretLink string          `json:"secret_link"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

var TopicSchema = Schema[Topic]{
	Table:     "topics",
	Key:       "id",
	AutoKey:   true,
	Columns:   []string{"active", "content", "acronym", "secret_id"},
	CreatedAt: "createdAt",
	UpdatedAt: "updatedAt",
	Targets: func(t *Topic) []any {
		return []any{&t.ID, &t.Active, &t.Content, &t.Acronym, &t.SecretLink, &t.CreatedAt, &t.UpdatedAt}
	},
	Values: func(t *Topic) []any { return []any{t.Active, t.Content, t.Acronym, t.SecretLink} },
	KeyOf:  func(t *Topic) any { return t.ID },
}

// Configuration bundles the question sets used by one registration cycle.
type Configuration struct {
	ID                        int64           `json:"id"`
	Name                      string          `json:"name"`
	Content                   json.RawMessage `json:"content"`
	Active                    bool            `json:"active"`
	ReviewQuestionSet1ID      *int64          `json:"review_question_set1_id"`
	ReviewQuestionSet2ID      *int64          `json:"review_question_set2_id"`
	RegistrationQuestionSetID *int64          `json:"registration_question_set_id"`
	CreatedAt                 time.Time       `json:"created_at"`
	UpdatedAt                 time.Time       `json:"updated_at"`
}

var ConfigurationSchema = Schema[Configuration]{
	Table:   "configurations",
	Key:     "id",
	AutoKey: true,
	Columns: []string{
		"name", "content", "active",
		"review_question_set1_id", "review_question_set2_id", "registration_question_set_id",
	},
	CreatedAt: "created_at",
	UpdatedAt: "updated_at",
	Targets: func(c *Configuration) []any {
		return []any{
			&c.ID, &c.Name, &c.Content, &c.Active,
			&c.ReviewQuestionSet1ID, &c.ReviewQuestionSet2ID, &c.RegistrationQuestionSetID,
			&c.CreatedAt, &c.UpdatedAt,
		}
	},
	Values: func(c *Configuration) []any {
		return []any{
			c.Name, c.Content, c.Active,
			c.ReviewQuestionSet1ID, c.ReviewQuestionSet2ID, c.RegistrationQuestionSetID,
		}
	},
	KeyOf: func(c *Configuration) any { return c.ID },
}

// Registration is a student's ranked topic preferences and answers under a
// configuration. StudentNumber is the "student" association to User.
type Registration struct {
	ID              int64           `json:"id"`
	PreferredTopics json.RawMessage `json:"preferred_topics"`
	Questions       json.RawMessage `json:"questions"`
	ConfigurationID *int64          `json:"configuration_id"`
	StudentNumber   *string         `json:"studentStudentNumber"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

var RegistrationSchema = Schema[Registration]{
	Table:     "registrations",
	Key:       "id",
	AutoKey:   true,
	Columns:   []string{"preferred_topics", "questions", "configuration_id", "studentStudentNumber"},
	CreatedAt: "createdAt",
	UpdatedAt: "updatedAt",
	Targets: func(r *Registration) []any {
		return []any{
			&r.ID, &r.PreferredTopics, &r.Questions, &r.ConfigurationID, &r.StudentNumber,
			&r.CreatedAt, &r.UpdatedAt,
		}
	},
	Values: func(r *Registration) []any {
		return []any{r.PreferredTopics, r.Questions, r.ConfigurationID, r.StudentNumber}
	},
	KeyOf: func(r *Registration) any { return r.ID },
}

// InstructorReview is an instructor's filled-in review answer sheet.
type InstructorReview struct {
	ID          int64           `json:"id"`
	AnswerSheet json.RawMessage `json:"answer_sheet"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

var InstructorReviewSchema = Schema[InstructorReview]{
	Table:     "instructor_reviews",
	Key:       "id",
	AutoKey:   true,
	Columns:   []string{"answer_sheet"},
	CreatedAt: "createdAt",
	UpdatedAt: "updatedAt",
	Targets: func(r *InstructorReview) []any {
		return []any{&r.ID, &r.AnswerSheet, &r.CreatedAt, &r.UpdatedAt}
	},
	Values: func(r *InstructorReview) []any { return []any{r.AnswerSheet} },
	KeyOf:  func(r *InstructorReview) any { return r.ID },
}
