package seed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/yigit/topicreg/internal/app/models"
	"github.com/yigit/topicreg/internal/app/repositories/repotest"
	appServices "github.com/yigit/topicreg/internal/app/services"
	"github.com/yigit/topicreg/internal/pkg/auth"
)

func TestCreateDefaultDataPromotesAdmins(t *testing.T) {
	fake := repotest.NewRepositories()
	svc := appServices.NewServices(fake.Repositories(), auth.NewJWTService(auth.JWTConfig{SecretKey: "test"}), zerolog.Nop())
	ctx := context.Background()

	if err := fake.Users.Create(ctx, &models.User{StudentNumber: "014000001", Username: "alice", Email: "alice@example.com"}); err != nil {
		t.Fatalf("create user: %v", err)
	}

	if err := CreateDefaultData(ctx, svc.Users, []string{"014000001", "014000002"}, zerolog.Nop()); err != nil {
		t.Fatalf("CreateDefaultData() error = %v", err)
	}

	users, err := svc.Users.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("got %d users, want 2", len(users))
	}
	for _, u := range users {
		if !u.Admin {
			t.Errorf("user %s is not admin", u.StudentNumber)
		}
	}
	if users[0].Email != "alice@example.com" {
		t.Errorf("existing profile overwritten: %+v", users[0])
	}
}

func TestCreateDefaultDataWithoutAdmins(t *testing.T) {
	fake := repotest.NewRepositories()
	svc := appServices.NewServices(fake.Repositories(), auth.NewJWTService(auth.JWTConfig{SecretKey: "test"}), zerolog.Nop())

	if err := CreateDefaultData(context.Background(), svc.Users, nil, zerolog.Nop()); err != nil {
		t.Fatalf("CreateDefaultData() error = %v", err)
	}
	if fake.Users.Writes != 0 {
		t.Errorf("Writes = %d, want 0", fake.Users.Writes)
	}
}
