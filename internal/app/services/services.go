package services

import (
	"github.com/rs/zerolog"
	"github.com/yigit/topicreg/internal/app/migrations"
	"github.com/yigit/topicreg/internal/app/models"
	"github.com/yigit/topicreg/internal/app/models/dto"
	"github.com/yigit/topicreg/internal/app/repositories"
	"github.com/yigit/topicreg/internal/pkg/auth"
)

// Services holds the application services.
type Services struct {
	Groups                   *CRUDService[models.Group]
	Memberships              *CRUDService[models.Membership]
	ReviewQuestionSets       *CRUDService[models.ReviewQuestionSet]
	RegistrationQuestionSets *CRUDService[models.RegistrationQuestionSet]
	Configurations           *CRUDService[models.Configuration]
	InstructorReviews        *CRUDService[models.InstructorReview]
	TopicDates               *TopicDateService
	Topics                   *TopicService
	Registrations            *RegistrationService
	Users                    *UserService
	Auth                     *AuthService
}

// Entity rules. Messages are part of the public API.
var (
	GroupRules = Rules[models.Group]{
		Resource:         "group",
		NameColumn:       "group_name",
		NameOf:           func(g *models.Group) string { return g.GroupName },
		ConflictMessage:  "a group with that name already exists",
		UniqueConstraint: migrations.GroupNameKey,
		InternalMessage:  dto.MessageDatabaseError,
	}

	ReviewQuestionSetRules = Rules[models.ReviewQuestionSet]{
		Resource:         "review question set",
		NameColumn:       "name",
		NameOf:           func(q *models.ReviewQuestionSet) string { return q.Name },
		ConflictMessage:  "name already in use",
		UniqueConstraint: migrations.ReviewQuestionSetNameKey,
	}

	RegistrationQuestionSetRules = Rules[models.RegistrationQuestionSet]{
		Resource:        "registration question set",
		NameColumn:      "name",
		NameOf:          func(q *models.RegistrationQuestionSet) string { return q.Name },
		ConflictMessage: "name already in use",
	}

	MembershipRules = Rules[models.Membership]{Resource: "membership"}

	ConfigurationRules = Rules[models.Configuration]{Resource: "configuration"}

	InstructorReviewRules = Rules[models.InstructorReview]{Resource: "instructor review"}
)

// NewServices wires every service to its store.
func NewServices(repos *repositories.Repositories, jwt *auth.JWTService, logger zerolog.Logger) *Services {
	users := NewCRUDService(repos.Users, models.UserSchema, Rules[models.User]{Resource: "user"}, logger)
	configurations := NewCRUDService(repos.Configurations, models.ConfigurationSchema, ConfigurationRules, logger)

	return &Services{
		Groups:                   NewCRUDService(repos.Groups, models.GroupSchema, GroupRules, logger),
		Memberships:              NewCRUDService(repos.Memberships, models.MembershipSchema, MembershipRules, logger),
		ReviewQuestionSets:       NewCRUDService(repos.ReviewQuestionSets, models.ReviewQuestionSetSchema, ReviewQuestionSetRules, logger),
		RegistrationQuestionSets: NewCRUDService(repos.RegistrationQuestionSets, models.RegistrationQuestionSetSchema, RegistrationQuestionSetRules, logger),
		Configurations:           configurations,
		InstructorReviews:        NewCRUDService(repos.InstructorReviews, models.InstructorReviewSchema, InstructorReviewRules, logger),
		TopicDates:               NewTopicDateService(repos.TopicDates, logger),
		Topics:                   NewTopicService(repos.Topics, logger),
		Registrations:            NewRegistrationService(repos.Registrations, configurations, logger),
		Users:                    NewUserService(users),
		Auth:                     NewAuthService(users, jwt),
	}
}
