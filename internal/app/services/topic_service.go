package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/topicreg/internal/app/models"
	"github.com/yigit/topicreg/internal/app/models/dto"
	"github.com/yigit/topicreg/internal/app/repositories"
	"github.com/yigit/topicreg/internal/pkg/apperrors"
)

// TopicDateService manages the append-only log of registration windows.
type TopicDateService struct {
	crud *CRUDService[models.TopicDate]
}

// NewTopicDateService creates a new topic date service
func NewTopicDateService(store repositories.Store[models.TopicDate], logger zerolog.Logger) *TopicDateService {
	return &TopicDateService{
		crud: NewCRUDService(store, models.TopicDateSchema, Rules[models.TopicDate]{Resource: "topic date"}, logger),
	}
}

// Create appends a new entry.
func (s *TopicDateService) Create(ctx context.Context, dates json.RawMessage) (*models.TopicDate, error) {
	rec := &models.TopicDate{Dates: dates}
	if err := s.crud.Create(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Latest returns the most recently created entry as a list of at most one.
func (s *TopicDateService) Latest(ctx context.Context) ([]models.TopicDate, error) {
	return s.crud.List(ctx, repositories.Query{
		OrderBy: []repositories.Order{
			{Column: models.TopicDateSchema.CreatedAt, Desc: true},
			{Column: "id", Desc: true},
		},
		Limit:   1,
	})
}

// TopicService manages topic proposals.
type TopicService struct {
	crud *CRUDService[models.Topic]
}

// NewTopicService creates a new topic service
func NewTopicService(store repositories.Store[models.Topic], logger zerolog.Logger) *TopicService {
	return &TopicService{
		crud: NewCRUDService(store, models.TopicSchema, Rules[models.Topic]{
			Resource:        "topic",
			NotFoundMessage: "topic not found",
		}, logger),
	}
}

// Create stores an inactive topic with a fresh secret edit link.
func (s *TopicService) Create(ctx context.Context, req dto.TopicRequest) (*models.Topic, error) {
	topic := &models.Topic{
		Content:    req.Content,
		Acronym:    req.Acronym,
		SecretLink: uuid.NewString(),
	}
	if err := s.crud.Create(ctx, topic); err != nil {
		return nil, err
	}
	return topic, nil
}

// List returns every topic.
func (s *TopicService) List(ctx context.Context) ([]models.Topic, error) {
	return s.crud.List(ctx, repositories.Query{OrderBy: []repositories.Order{{Column: "id"}}})
}

// Active returns the topics open for registration.
func (s *TopicService) Active(ctx context.Context) ([]models.Topic, error) {
	return s.crud.List(ctx, repositories.Query{
		Where:   repositories.Eq("active", true),
		OrderBy: []repositories.Order{{Column: "id"}},
	})
}

// Get returns a topic by id or a not found error.
func (s *TopicService) Get(ctx context.Context, id int64) (*models.Topic, error) {
	topic, err := s.crud.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if topic == nil {
		return nil, apperrors.NewResourceNotFoundError("topic not found")
	}
	return topic, nil
}

// GetBySecret returns the topic owning a secret edit link.
func (s *TopicService) GetBySecret(ctx context.Context, secret string) (*models.Topic, error) {
	topic, err := s.crud.Find(ctx, repositories.Query{Where: repositories.Eq("secret_id", secret)})
	if err != nil {
		return nil, err
	}
	if topic == nil {
		return nil, apperrors.NewResourceNotFoundError("topic not found")
	}
	return topic, nil
}

// Update applies an admin edit. Absent fields are left unchanged.
func (s *TopicService) Update(ctx context.Context, id int64, req dto.TopicUpdateRequest) (*models.Topic, error) {
	topic, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Active != nil {
		topic.Active = *req.Active
	}
	if len(req.Content) > 0 {
		topic.Content = req.Content
	}
	if req.Acronym != nil {
		topic.Acronym = req.Acronym
	}
	if err := s.crud.Save(ctx, topic); err != nil {
		return nil, err
	}
	return topic, nil
}

// UpdateBySecret lets the proposer replace the content and acronym of their
// topic. The active flag stays under admin control.
func (s *TopicService) UpdateBySecret(ctx context.Context, secret string, req dto.TopicRequest) (*models.Topic, error) {
	topic, err := s.GetBySecret(ctx, secret)
	if err != nil {
		return nil, err
	}
	topic.Content = req.Content
	if req.Acronym != nil {
		topic.Acronym = req.Acronym
	}
	if err := s.crud.Save(ctx, topic); err != nil {
		return nil, err
	}
	return topic, nil
}
