package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yigit/topicreg/internal/app/models"
	"github.com/yigit/topicreg/internal/app/repositories"
	"github.com/yigit/topicreg/internal/pkg/apperrors"
	"github.com/yigit/topicreg/internal/pkg/auth"
)

// UserService handles user-related operations
type UserService struct {
	crud *CRUDService[models.User]
}

// NewUserService creates a new user service
func NewUserService(crud *CRUDService[models.User]) *UserService {
	return &UserService{crud: crud}
}

// List returns every user.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.crud.List(ctx, repositories.Query{OrderBy: []repositories.Order{{Column: "student_number"}}})
}

// SetAdmin grants or revokes admin rights.
func (s *UserService) SetAdmin(ctx context.Context, studentNumber string, admin bool) (*models.User, error) {
	user, err := s.crud.Get(ctx, studentNumber)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NewResourceNotFoundError("user not found")
	}
	user.Admin = admin
	if err := s.crud.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// PromoteAdmins grants admin rights to the listed student numbers, creating
// placeholder users for those who never logged in.
func (s *UserService) PromoteAdmins(ctx context.Context, studentNumbers []string) error {
	for _, sn := range studentNumbers {
		user := &models.User{StudentNumber: sn, Username: sn, Admin: true}
		if err := s.crud.Upsert(ctx, user, "admin"); err != nil {
			return fmt.Errorf("promote %s: %w", sn, err)
		}
	}
	return nil
}

// Identity is what the single sign-on gateway asserts about the caller.
type Identity struct {
	UID           string
	FirstNames    string
	LastName      string
	Email         string
	StudentNumber string
}

// StudentNumberFromCode reads the student number from a schacPersonalUniqueCode
// value, e.g. "urn:schac:personalUniqueCode:int:studentID:helsinki.fi:014000000".
func StudentNumberFromCode(code string) string {
	parts := strings.Split(code, ":")
	return parts[len(parts)-1]
}

// AuthService logs users in from gateway identities.
type AuthService struct {
	users *CRUDService[models.User]
	jwt   *auth.JWTService
}

// NewAuthService creates a new auth service
func NewAuthService(users *CRUDService[models.User], jwt *auth.JWTService) *AuthService {
	return &AuthService{users: users, jwt: jwt}
}

// Login creates or refreshes the user for id and issues a token. The admin
// flag is never changed by a login.
func (s *AuthService) Login(ctx context.Context, id Identity) (string, *models.User, error) {
	if id.UID == "" {
		return "", nil, apperrors.NewUnauthorizedError("missing identity")
	}
	studentNumber := id.StudentNumber
	if studentNumber == "" {
		studentNumber = id.UID
	}

	user := &models.User{
		StudentNumber: studentNumber,
		Username:      id.UID,
		FirstNames:    id.FirstNames,
		LastName:      id.LastName,
		Email:         id.Email,
	}
	if err := s.users.Upsert(ctx, user, "username", "first_names", "last_name", "email"); err != nil {
		return "", nil, err
	}

	token, err := s.jwt.GenerateToken(user)
	if err != nil {
		return "", nil, apperrors.NewInternalError(err, "internal server error")
	}
	return token, user, nil
}
