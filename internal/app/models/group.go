package models

import (
	"encoding/json"
	"time"
)

// Group is a named set of students working on a topic.
type Group struct {
	ID        int64     `json:"id"`
	GroupName string    `json:"group_name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

var GroupSchema = Schema[Group]{
	Table:     "groups",
	Key:       "id",
	AutoKey:   true,
	Columns:   []string{"group_name"},
	CreatedAt: "createdAt",
	UpdatedAt: "updatedAt",
	Targets: func(g *Group) []any {
		return []any{&g.ID, &g.GroupName, &g.CreatedAt, &g.UpdatedAt}
	},
	Values: func(g *Group) []any { return []any{g.GroupName} },
	KeyOf:  func(g *Group) any { return g.ID },
}

// Membership links a student, in a role, to a group. Rows go away with
// their group.
type Membership struct {
	ID            int64     `json:"id"`
	Role          *string   `json:"role"`
	StudentNumber *string   `json:"student_number"`
	GroupID       *int64    `json:"group_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

var MembershipSchema = Schema[Membership]{
	Table:     "memberships",
	Key:       "id",
	AutoKey:   true,
	Columns:   []string{"role", "student_number", "group_id"},
	CreatedAt: "created_at",
	UpdatedAt: "updated_at",
	Targets: func(m *Membership) []any {
		return []any{&m.ID, &m.Role, &m.StudentNumber, &m.GroupID, &m.CreatedAt, &m.UpdatedAt}
	},
	Values: func(m *Membership) []any { return []any{m.Role, m.StudentNumber, m.GroupID} },
	KeyOf:  func(m *Membership) any { return m.ID },
}

// TopicDate is one entry of the append-only log of registration windows.
type TopicDate struct {
	ID        int64           `json:"id"`
	Dates     json.RawMessage `json:"dates"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

var TopicDateSchema = Schema[TopicDate]{
	Table:     "topic_dates",
	Key:       "id",
	AutoKey:   true,
	Columns:   []string{"dates"},
	CreatedAt: "createdAt",
	UpdatedAt: "updatedAt",
	Targets: func(d *TopicDate) []any {
		return []any{&d.ID, &d.Dates, &d.CreatedAt, &d.UpdatedAt}
	},
	Values: func(d *TopicDate) []any { return []any{d.Dates} },
	KeyOf:  func(d *TopicDate) any { return d.ID },
}
