package services

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/rs/zerolog"
	"github.com/yigit/topicreg/internal/app/models"
	"github.com/yigit/topicreg/internal/app/models/dto"
	"github.com/yigit/topicreg/internal/app/repositories"
	"github.com/yigit/topicreg/internal/pkg/apperrors"
	"github.com/yigit/topicreg/internal/pkg/dberrors"
)

// MessageUnknownReference is reported when a write points at a missing row.
const MessageUnknownReference = "referenced record does not exist"

// Rules parameterize CRUDService for one entity.
type Rules[T any] struct {
	// Resource names the entity in logs.
	Resource string

	// NameColumn enables the name uniqueness check when set. NameOf reads the
	// candidate name from a record.
	NameColumn      string
	NameOf          func(*T) string
	ConflictMessage string
	// UniqueConstraint is the store constraint backing the name check. A
	// violation of it is reported with ConflictMessage.
	UniqueConstraint string

	// NotFoundMessage is reported when an update targets a missing record.
	NotFoundMessage string
	// InternalMessage is shown to clients when the store fails.
	InternalMessage string
}

// CRUDService runs the shared validate, check, write and reload sequence on
// top of a store.
type CRUDService[T any] struct {
	store  repositories.Store[T]
	schema models.Schema[T]
	rules  Rules[T]
	logger zerolog.Logger
}

// NewCRUDService creates a CRUD service for the entity described by schema.
func NewCRUDService[T any](store repositories.Store[T], schema models.Schema[T], rules Rules[T], logger zerolog.Logger) *CRUDService[T] {
	if rules.InternalMessage == "" {
		rules.InternalMessage = dto.MessageSomethingWrong
	}
	if rules.NotFoundMessage == "" {
		rules.NotFoundMessage = "no " + rules.Resource + " with that id"
	}
	return &CRUDService[T]{
		store:  store,
		schema: schema,
		rules:  rules,
		logger: logger.With().Str("resource", rules.Resource).Logger(),
	}
}

// internal logs err with the failing operation and returns the generic
// client-facing error.
func (s *CRUDService[T]) internal(err error, op string, key any, message string) error {
	if message == "" {
		message = s.rules.InternalMessage
	}
	s.logger.Error().Err(err).Str("operation", op).Interface("key", key).Msg("store operation failed")
	return apperrors.NewInternalError(err, message)
}

// checkName fails with a conflict when another record already uses the
// candidate's name. exclude is the key of the record being updated.
func (s *CRUDService[T]) checkName(ctx context.Context, candidate *T, exclude any) error {
	if s.rules.NameColumn == "" {
		return nil
	}

	var where sq.Sqlizer = repositories.Eq(s.rules.NameColumn, s.rules.NameOf(candidate))
	if exclude != nil {
		where = sq.And{where, repositories.NotEq(s.schema.Key, exclude)}
	}

	_, err := s.store.FindOne(ctx, repositories.Query{Where: where})
	switch {
	case err == nil:
		return apperrors.NewConflictError(s.rules.ConflictMessage)
	case errors.Is(err, repositories.ErrNotFound):
		return nil
	default:
		return s.internal(err, "checkName", s.rules.NameOf(candidate), "")
	}
}

// writeError maps a failed write. A lost uniqueness race becomes the
// conflict the name check reports and a dangling reference a validation error.
func (s *CRUDService[T]) writeError(err error, op string, key any) error {
	if s.rules.UniqueConstraint != "" && dberrors.IsDuplicateConstraintError(err, s.rules.UniqueConstraint) {
		return apperrors.NewConflictError(s.rules.ConflictMessage)
	}
	if dberrors.IsForeignKeyViolation(err) {
		return apperrors.NewValidationError(MessageUnknownReference)
	}
	return s.internal(err, op, key, "")
}

// Create checks name uniqueness and inserts rec.
func (s *CRUDService[T]) Create(ctx context.Context, rec *T) error {
	if err := s.checkName(ctx, rec, nil); err != nil {
		return err
	}
	if err := s.store.Create(ctx, rec); err != nil {
		return s.writeError(err, "create", nil)
	}
	return nil
}

// Update checks name uniqueness against every other record, then applies
// candidate to the stored record with apply, writes it and reloads it.
// A missing record is reported as a validation failure.
func (s *CRUDService[T]) Update(ctx context.Context, key any, candidate *T, apply func(stored, candidate *T)) (*T, error) {
	if err := s.checkName(ctx, candidate, key); err != nil {
		return nil, err
	}

	stored, err := s.store.FindOne(ctx, repositories.Query{Where: repositories.Eq(s.schema.Key, key)})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewValidationError(s.rules.NotFoundMessage)
		}
		return nil, s.internal(err, "update", key, "")
	}

	apply(stored, candidate)
	if err := s.store.Update(ctx, stored); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewValidationError(s.rules.NotFoundMessage)
		}
		return nil, s.writeError(err, "update", key)
	}
	if err := s.store.Reload(ctx, stored); err != nil {
		return nil, s.internal(err, "reload", key, "")
	}
	return stored, nil
}

// Get returns the record with key, or nil when there is none.
func (s *CRUDService[T]) Get(ctx context.Context, key any) (*T, error) {
	return s.Find(ctx, repositories.Query{Where: repositories.Eq(s.schema.Key, key)})
}

// Find returns the first record matching q, or nil when there is none.
func (s *CRUDService[T]) Find(ctx context.Context, q repositories.Query) (*T, error) {
	rec, err := s.store.FindOne(ctx, q)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil
		}
		return nil, s.internal(err, "findOne", nil, "")
	}
	return rec, nil
}

// List returns every record matching q.
func (s *CRUDService[T]) List(ctx context.Context, q repositories.Query) ([]T, error) {
	recs, err := s.store.FindAll(ctx, q)
	if err != nil {
		return nil, s.internal(err, "findAll", nil, "")
	}
	return recs, nil
}

// Save writes an already loaded record back to the store.
func (s *CRUDService[T]) Save(ctx context.Context, rec *T) error {
	if err := s.store.Update(ctx, rec); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NewResourceNotFoundError(s.rules.NotFoundMessage)
		}
		return s.writeError(err, "save", s.schema.KeyOf(rec))
	}
	return nil
}

// Upsert inserts rec or refreshes the listed columns of the existing row.
func (s *CRUDService[T]) Upsert(ctx context.Context, rec *T, columns ...string) error {
	if err := s.store.Upsert(ctx, rec, columns...); err != nil {
		return s.internal(err, "upsert", s.schema.KeyOf(rec), "")
	}
	return nil
}

// Delete removes the record with key. A record that is already gone counts
// as deleted and nothing is written.
func (s *CRUDService[T]) Delete(ctx context.Context, key any) error {
	rec, err := s.store.FindOne(ctx, repositories.Query{Where: repositories.Eq(s.schema.Key, key)})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return s.internal(err, "delete", key, dto.MessageInternalError)
	}

	if err := s.store.Destroy(ctx, rec); err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return s.internal(err, "delete", key, dto.MessageInternalError)
	}
	return nil
}
