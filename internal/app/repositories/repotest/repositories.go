package repotest

import (
	"github.com/yigit/topicreg/internal/app/models"
	"github.com/yigit/topicreg/internal/app/repositories"
)

// Repositories is an in-memory repositories.Repositories with typed access
// to each store.
type Repositories struct {
	Groups                   *Store[models.Group]
	Memberships              *Store[models.Membership]
	Topics                   *Store[models.Topic]
	TopicDates               *Store[models.TopicDate]
	ReviewQuestionSets       *Store[models.ReviewQuestionSet]
	RegistrationQuestionSets *Store[models.RegistrationQuestionSet]
	Registrations            *Store[models.Registration]
	Configurations           *Store[models.Configuration]
	InstructorReviews        *Store[models.InstructorReview]
	Users                    *Store[models.User]
}

// NewRepositories creates empty stores for every table.
func NewRepositories() *Repositories {
	return &Repositories{
		Groups:                   NewStore(models.GroupSchema),
		Memberships:              NewStore(models.MembershipSchema),
		Topics:                   NewStore(models.TopicSchema),
		TopicDates:               NewStore(models.TopicDateSchema),
		ReviewQuestionSets:       NewStore(models.ReviewQuestionSetSchema),
		RegistrationQuestionSets: NewStore(models.RegistrationQuestionSetSchema),
		Registrations:            NewStore(models.RegistrationSchema),
		Configurations:           NewStore(models.ConfigurationSchema),
		InstructorReviews:        NewStore(models.InstructorReviewSchema),
		Users:                    NewStore(models.UserSchema),
	}
}

// Repositories returns the stores behind the production interface.
func (r *Repositories) Repositories() *repositories.Repositories {
	return &repositories.Repositories{
		Groups:                   r.Groups,
		Memberships:              r.Memberships,
		Topics:                   r.Topics,
		TopicDates:               r.TopicDates,
		ReviewQuestionSets:       r.ReviewQuestionSets,
		RegistrationQuestionSets: r.RegistrationQuestionSets,
		Registrations:            r.Registrations,
		Configurations:           r.Configurations,
		InstructorReviews:        r.InstructorReviews,
		Users:                    r.Users,
	}
}
