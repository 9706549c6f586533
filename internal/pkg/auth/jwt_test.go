package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/yigit/topicreg/internal/app/models"
)

func newTestService(exp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{SecretKey: "test-secret", AccessTokenExp: exp, TokenIssuer: "topicreg"})
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := newTestService(time.Hour)
	user := &models.User{StudentNumber: "014000000", Username: "jdoe", Admin: true}

	token, err := svc.GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.StudentNumber != "014000000" || claims.Username != "jdoe" || !claims.Admin {
		t.Errorf("claims = %+v", claims)
	}
	if claims.ID == "" {
		t.Error("token id should be set")
	}
}

func TestValidateTokenFailures(t *testing.T) {
	svc := newTestService(time.Hour)
	user := &models.User{StudentNumber: "014000000"}

	other, _ := NewJWTService(JWTConfig{SecretKey: "other", AccessTokenExp: time.Hour}).GenerateToken(user)
	expired, _ := newTestService(-time.Minute).GenerateToken(user)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"empty", "", ErrInvalidToken},
		{"garbage", "not-a-token", ErrInvalidToken},
		{"wrong secret", other, ErrInvalidToken},
		{"expired", expired, ErrExpiredToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.ValidateToken(tt.token); !errors.Is(err, tt.want) {
				t.Errorf("ValidateToken() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestExtractBearerToken(t *testing.T) {
	if got, _ := ExtractBearerToken("Bearer abc"); got != "abc" {
		t.Errorf("ExtractBearerToken() = %q", got)
	}
	if got, _ := ExtractBearerToken("abc"); got != "abc" {
		t.Errorf("ExtractBearerToken() = %q", got)
	}
	if _, err := ExtractBearerToken(""); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("ExtractBearerToken(\"\") error = %v", err)
	}
}
