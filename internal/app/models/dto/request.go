package dto

import "encoding/json"

// Request bodies. `validate` tags are checked by internal/pkg/validation;
// `document` rejects absent, empty and null JSON documents.

// GroupRequest creates a group.
type GroupRequest struct {
	GroupName string `json:"group_name" validate:"required" example:"Alpha"`
}

// QuestionSetRequest creates or updates a review or registration question set.
type QuestionSetRequest struct {
	Name      string          `json:"name" validate:"required" example:"Midterm"`
	Questions json.RawMessage `json:"questions" swaggertype:"array,string" example:"Q1"`
}

// TopicDateRequest appends a registration window entry.
type TopicDateRequest struct {
	Dates json.RawMessage `json:"dates" validate:"document" swaggertype:"object"`
}

// MembershipRequest adds a student to a group.
type MembershipRequest struct {
	GroupID       int64  `json:"group_id" validate:"required,gt=0" example:"1"`
	StudentNumber string `json:"student_number" validate:"required" example:"014000000"`
	Role          string `json:"role" validate:"required" example:"student"`
}

// TopicRequest creates a topic or replaces its content.
type TopicRequest struct {
	Content json.RawMessage `json:"content" validate:"document" swaggertype:"object"`
	Acronym *string         `json:"acronym" example:"TOPX"`
}

// TopicUpdateRequest is the admin edit of a topic. Absent fields keep their
// stored value.
type TopicUpdateRequest struct {
	Active  *bool           `json:"active" example:"true"`
	Content json.RawMessage `json:"content" swaggertype:"object"`
	Acronym *string         `json:"acronym" example:"TOPX"`
}

// RegistrationRequest submits the caller's topic preferences.
type RegistrationRequest struct {
	PreferredTopics json.RawMessage `json:"preferred_topics" validate:"document" swaggertype:"array,integer"`
	Questions       json.RawMessage `json:"questions" swaggertype:"object"`
	ConfigurationID *int64          `json:"configuration_id" example:"1"`
}

// ConfigurationRequest creates or updates a configuration.
type ConfigurationRequest struct {
	Name                      string          `json:"name" validate:"required" example:"Spring 2019"`
	Content                   json.RawMessage `json:"content" swaggertype:"object"`
	Active                    bool            `json:"active" example:"false"`
	ReviewQuestionSet1ID      *int64          `json:"review_question_set1_id" example:"1"`
	ReviewQuestionSet2ID      *int64          `json:"review_question_set2_id" example:"2"`
	RegistrationQuestionSetID *int64          `json:"registration_question_set_id" example:"1"`
}

// InstructorReviewRequest stores an instructor's answer sheet.
type InstructorReviewRequest struct {
	AnswerSheet json.RawMessage `json:"answer_sheet" validate:"document" swaggertype:"object"`
}

// UserAdminRequest grants or revokes admin rights.
type UserAdminRequest struct {
	Admin *bool `json:"admin" validate:"required" example:"true"`
}
