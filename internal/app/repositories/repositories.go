package repositories

import (
	"github.com/yigit/topicreg/internal/app/models"
	"github.com/yigit/topicreg/internal/db"
)

// Repositories holds all the repository instances
type Repositories struct {
	Groups                   Store[models.Group]
	Memberships              Store[models.Membership]
	Topics                   Store[models.Topic]
	TopicDates               Store[models.TopicDate]
	ReviewQuestionSets       Store[models.ReviewQuestionSet]
	RegistrationQuestionSets Store[models.RegistrationQuestionSet]
	Registrations            Store[models.Registration]
	Configurations           Store[models.Configuration]
	InstructorReviews        Store[models.InstructorReview]
	Users                    Store[models.User]
}

// NewRepositories initializes all repositories
func NewRepositories(q db.Querier) *Repositories {
	return &Repositories{
		Groups:                   NewTable(q, models.GroupSchema),
		Memberships:              NewTable(q, models.MembershipSchema),
		Topics:                   NewTable(q, models.TopicSchema),
		TopicDates:               NewTable(q, models.TopicDateSchema),
		ReviewQuestionSets:       NewTable(q, models.ReviewQuestionSetSchema),
		RegistrationQuestionSets: NewTable(q, models.RegistrationQuestionSetSchema),
		Registrations:            NewTable(q, models.RegistrationSchema),
		Configurations:           NewTable(q, models.ConfigurationSchema),
		InstructorReviews:        NewTable(q, models.InstructorReviewSchema),
		Users:                    NewTable(q, models.UserSchema),
	}
}
