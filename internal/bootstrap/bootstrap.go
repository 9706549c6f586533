package bootstrap

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/topicreg/internal/app/controllers"
	appMigrations "github.com/yigit/topicreg/internal/app/migrations"
	appRepos "github.com/yigit/topicreg/internal/app/repositories"
	appRoutes "github.com/yigit/topicreg/internal/app/routes"
	appServices "github.com/yigit/topicreg/internal/app/services"
	"github.com/yigit/topicreg/internal/config"
	"github.com/yigit/topicreg/internal/db"
	appMiddleware "github.com/yigit/topicreg/internal/middleware"
	pkgAuth "github.com/yigit/topicreg/internal/pkg/auth"
	"github.com/yigit/topicreg/internal/pkg/helpers"
	"github.com/yigit/topicreg/internal/pkg/logger"
	"github.com/yigit/topicreg/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	DB             *db.PostgresDB
	Repos          *appRepos.Repositories
	Services       *appServices.Services
	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	JWTService     *pkgAuth.JWTService
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.EqualFold(cfg.Logging.Format, "text"),
	})

	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// NewJWTService builds the token service from configuration.
func NewJWTService(cfg *config.Config) *pkgAuth.JWTService {
	return pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.Expiration, 24*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})
}

// SetupDatabase starts connecting to the database in the background. The
// returned handle reports readiness once the pool is up, migrations have run
// (when enabled) and the default admins exist. Requests arriving earlier are
// held by the readiness middleware.
func SetupDatabase(ctx context.Context, cfg *config.Config, jwt *pkgAuth.JWTService, lgr zerolog.Logger) *db.PostgresDB {
	database := db.NewPostgresDB(cfg, logger.Component("database"))

	setup := func(ctx context.Context, pool *pgxpool.Pool) error {
		if cfg.Database.MigrateOnStart {
			lgr.Info().Msg("Running database migrations...")
			applied, err := appMigrations.NewMigrator(pool, logger.Component("migrations")).Up(ctx)
			if err != nil {
				lgr.Error().Err(err).Msg("Database migration error")
				return err
			}
			lgr.Info().Strs("applied", applied).Msg("Database migrations successfully applied.")
		}

		svc := appServices.NewServices(appRepos.NewRepositories(pool), jwt, lgr)
		if err := seed.CreateDefaultData(ctx, svc.Users, cfg.Auth.Admins, lgr); err != nil {
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
		return nil
	}

	retry := helpers.ParseDuration(cfg.Database.ConnectRetry, 5*time.Second)
	lgr.Info().Dur("retry", retry).Msg("Establishing database connection in the background...")
	database.ConnectInBackground(ctx, retry, setup)
	return database
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, jwt *pkgAuth.JWTService, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{DB: database, JWTService: jwt, Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database)
	deps.Services = appServices.NewServices(deps.Repos, jwt, logger.Component("services"))
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(jwt)
	deps.Controllers = NewControllers(cfg, deps.Services, database, lgr)

	return deps
}

// NewControllers creates every HTTP controller over svc.
func NewControllers(cfg *config.Config, svc *appServices.Services, store appControllers.ReadinessChecker, lgr zerolog.Logger) appRoutes.Controllers {
	headers := appControllers.IdentityHeaders{
		UID:           cfg.Auth.UIDHeader,
		FirstNames:    cfg.Auth.FirstNamesHeader,
		LastName:      cfg.Auth.LastNameHeader,
		Email:         cfg.Auth.EmailHeader,
		StudentNumber: cfg.Auth.StudentNumberHeader,
	}

	return appRoutes.Controllers{
		Auth:          appControllers.NewAuthController(svc.Auth, headers, lgr),
		Groups:        appControllers.NewGroupController(svc.Groups, svc.Memberships),
		QuestionSets:  appControllers.NewQuestionSetController(svc.ReviewQuestionSets, svc.RegistrationQuestionSets),
		Topics:        appControllers.NewTopicController(svc.Topics, svc.TopicDates, lgr),
		Registrations: appControllers.NewRegistrationController(svc.Registrations, svc.Configurations, svc.InstructorReviews, lgr),
		Users:         appControllers.NewUserController(svc.Users, lgr),
		Health:        appControllers.NewHealthController(store),
	}
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.CORS(cfg.Server.CORSOrigins))
	router.Use(appMiddleware.RequestLogger(logger.Component("http"), "/api/login"))

	appRoutes.SetupSwagger(router)

	readyWait := helpers.ParseDuration(cfg.Server.ReadyWait, 3*time.Second)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware, appMiddleware.Readiness(deps.DB, readyWait))

	return router
}
