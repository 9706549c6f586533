package seed

import (
	"context"

	"github.com/rs/zerolog"
	appServices "github.com/yigit/topicreg/internal/app/services"
)

// CreateDefaultData grants admin rights to the configured student numbers.
// Users who never logged in get a placeholder row that their first login
// fills in.
func CreateDefaultData(ctx context.Context, users *appServices.UserService, admins []string, lgr zerolog.Logger) error {
	if len(admins) == 0 {
		lgr.Debug().Msg("No admins configured, skipping default data")
		return nil
	}

	lgr.Info().Strs("admins", admins).Msg("Checking/Creating default admins...")
	if err := users.PromoteAdmins(ctx, admins); err != nil {
		lgr.Error().Err(err).Msg("Error promoting default admins")
		return err
	}
	return nil
}
