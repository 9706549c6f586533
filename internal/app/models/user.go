package models

import (
	"time"
)

// User is keyed by the student number asserted by the single sign-on gateway.
type User struct {
	StudentNumber string    `json:"student_number" example:"014000000"`
	Username      string    `json:"username" example:"jdoe"`
	FirstNames    string    `json:"first_names" example:"John Edward"`
	LastName      string    `json:"last_name" example:"Doe"`
	Email         string    `json:"email" example:"john.doe@example.edu"`
	Admin         bool      `json:"admin" example:"false"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

var UserSchema = Schema[User]{
	Table:     "users",
	Key:       "student_number",
	Columns:   []string{"username", "first_names", "last_name", "email", "admin"},
	CreatedAt: "createdAt",
	UpdatedAt: "updatedAt",
	Targets: func(u *User) []any {
		return []any{
			&u.StudentNumber, &u.Username, &u.FirstNames, &u.LastName, &u.Email, &u.Admin,
			&u.CreatedAt, &u.UpdatedAt,
		}
	},
	Values: func(u *User) []any {
		return []any{u.Username, u.FirstNames, u.LastName, u.Email, u.Admin}
	},
	KeyOf: func(u *User) any { return u.StudentNumber },
}
