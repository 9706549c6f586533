package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/topicreg/internal/app/models"
	"github.com/yigit/topicreg/internal/app/models/dto"
	"github.com/yigit/topicreg/internal/app/repositories"
)

// RegistrationService stores students' topic preferences.
type RegistrationService struct {
	crud           *CRUDService[models.Registration]
	configurations *CRUDService[models.Configuration]
}

// NewRegistrationService creates a new registration service
func NewRegistrationService(store repositories.Store[models.Registration], configurations *CRUDService[models.Configuration], logger zerolog.Logger) *RegistrationService {
	return &RegistrationService{
		crud:           NewCRUDService(store, models.RegistrationSchema, Rules[models.Registration]{Resource: "registration"}, logger),
		configurations: configurations,
	}
}

// Create records a registration for student. Without an explicit
// configuration the currently active one is used, if any.
func (s *RegistrationService) Create(ctx context.Context, student string, req dto.RegistrationRequest) (*models.Registration, error) {
	configurationID := req.ConfigurationID
	if configurationID == nil {
		active, err := ActiveConfiguration(ctx, s.configurations)
		if err != nil {
			return nil, err
		}
		if active != nil {
			configurationID = &active.ID
		}
	}

	reg := &models.Registration{
		PreferredTopics: req.PreferredTopics,
		Questions:       req.Questions,
		ConfigurationID: configurationID,
		StudentNumber:   &student,
	}
	if err := s.crud.Create(ctx, reg); err != nil {
		return nil, err
	}
	return reg, nil
}

// List returns every registration.
func (s *RegistrationService) List(ctx context.Context) ([]models.Registration, error) {
	return s.crud.List(ctx, repositories.Query{OrderBy: []repositories.Order{{Column: "id"}}})
}

// Current returns the latest registration of student, or nil.
func (s *RegistrationService) Current(ctx context.Context, student string) (*models.Registration, error) {
	return s.crud.Find(ctx, repositories.Query{
		Where:   repositories.Eq("studentStudentNumber", student),
		OrderBy: []repositories.Order{
			{Column: models.RegistrationSchema.CreatedAt, Desc: true},
			{Column: "id", Desc: true},
		},
	})
}

// ActiveConfiguration returns the first active configuration, or nil.
func ActiveConfiguration(ctx context.Context, configurations *CRUDService[models.Configuration]) (*models.Configuration, error) {
	return configurations.Find(ctx, repositories.Query{
		Where:   repositories.Eq("active", true),
		OrderBy: []repositories.Order{{Column: "id"}},
	})
}
