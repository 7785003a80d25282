package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appAuth "github.com/vidyadaan/scholarhub/internal/app/auth"
	appControllers "github.com/vidyadaan/scholarhub/internal/app/controllers"
	appMigrations "github.com/vidyadaan/scholarhub/internal/app/migrations"
	appRepos "github.com/vidyadaan/scholarhub/internal/app/repositories"
	appRoutes "github.com/vidyadaan/scholarhub/internal/app/routes"
	appServices "github.com/vidyadaan/scholarhub/internal/app/services"
	"github.com/vidyadaan/scholarhub/internal/cache"
	"github.com/vidyadaan/scholarhub/internal/config"
	"github.com/vidyadaan/scholarhub/internal/db"
	appMiddleware "github.com/vidyadaan/scholarhub/internal/middleware"
	pkgAuth "github.com/vidyadaan/scholarhub/internal/pkg/auth"
	"github.com/vidyadaan/scholarhub/internal/pkg/email"
	"github.com/vidyadaan/scholarhub/internal/pkg/filestorage"
	"github.com/vidyadaan/scholarhub/internal/pkg/helpers"
	"github.com/vidyadaan/scholarhub/internal/pkg/logger"
	"github.com/vidyadaan/scholarhub/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService         *appServices.AuthService
	StudentService      appServices.StudentService
	ScholarshipService  appServices.ScholarshipService
	ApplicationService  appServices.ApplicationService
	DocumentService     appServices.DocumentService
	PaymentService      appServices.PaymentService
	NotificationService appServices.NotificationService
	GDPRService         appServices.GDPRService
	AuditService        appServices.AuditService

	AuthController         *appControllers.AuthController
	StudentController      *appControllers.StudentController
	ScholarshipController  *appControllers.ScholarshipController
	ApplicationController  *appControllers.ApplicationController
	DocumentController     *appControllers.DocumentController
	PaymentController      *appControllers.PaymentController
	NotificationController *appControllers.NotificationController
	GDPRController         *appControllers.GDPRController
	AdminController        *appControllers.AdminController

	AuthMiddleware *appMiddleware.AuthMiddleware
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	FileStorage    *filestorage.LocalStorage
	RedisClient    *redis.Client
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

	logger.ConfigureFromStrings(cfg.Logging.Level, cfg.Logging.Format)

	lgr := log.Logger
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the relational and document store connections and
// runs migrations. The Mongo side store is optional: a failed connection is
// logged and the application runs without audit mirroring.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, *db.MongoDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, nil, err
	}

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		database.Close()
		return nil, nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}
	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations applied.")

	if err := seed.CreateDefaultData(context.Background(), database, lgr); err != nil {
		// Seed failures are not fatal; the schema is in place either way.
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway")
	}

	var mongoDB *db.MongoDB
	if cfg.Mongo.URI != "" {
		mongoDB, err = db.NewMongoDB(cfg)
		if err != nil {
			lgr.Warn().Err(err).Msg("MongoDB unavailable, audit side store disabled")
			mongoDB = nil
		} else {
			lgr.Info().Str("database", cfg.Mongo.Database).Msg("MongoDB connection established")
		}
	}

	return database, mongoDB, nil
}

// applySystemOverrides overlays system_config rows onto the limits section.
func applySystemOverrides(cfg *config.Config, repos *appRepos.Repositories, lgr zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	entries, err := repos.SystemConfigRepository.GetAll(ctx)
	if err != nil {
		lgr.Warn().Err(err).Msg("Failed to load system config overrides")
		return
	}
	for _, entry := range entries {
		if err := cfg.ApplySystemOverride(entry.Key, entry.Value); err != nil {
			lgr.Warn().Err(err).Str("key", entry.Key).Msg("Ignoring invalid system config override")
		}
	}
	if len(entries) > 0 {
		lgr.Info().Int("count", len(entries)).Msg("System config overrides applied")
	}
}

// BuildDependencies initializes repositories, services and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, mongoDB *db.MongoDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	if mongoDB != nil {
		deps.Repos = appRepos.NewRepositories(database.Pool, mongoDB.Database)
	} else {
		deps.Repos = appRepos.NewRepositories(database.Pool, nil)
	}

	applySystemOverrides(cfg, deps.Repos, lgr)

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	var scholarshipCache *cache.Cache
	if cfg.Redis.Enabled {
		deps.RedisClient, err = cache.OpenRedis(cfg.Redis.Addr, cfg.Redis.DB)
		if err != nil {
			lgr.Warn().Err(err).Msg("Redis unavailable, catalog caching disabled")
		} else {
			scholarshipCache = cache.New(deps.RedisClient, helpers.ParseDuration(cfg.Redis.TTL, 5*time.Minute))
			lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Redis cache enabled")
		}
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	emailService := email.NewEmailService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		BaseURL:   cfg.Server.BaseURL,
	}, lgr)

	deps.AuditService = appServices.NewAuditService(deps.Repos.AuditRepository, lgr)
	deps.NotificationService = appServices.NewNotificationService(deps.Repos.NotificationRepository, lgr)

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.Repos.StudentRepository,
		deps.Repos.TokenRepository,
		deps.JWTService,
		emailService,
		lgr,
	)
	deps.StudentService = appServices.NewStudentService(
		deps.Repos.StudentRepository,
		deps.NotificationService,
		deps.AuditService,
		lgr,
	)
	deps.ScholarshipService = appServices.NewScholarshipService(
		deps.Repos.ScholarshipRepository,
		deps.Repos.StudentRepository,
		scholarshipCache,
		lgr,
	)
	deps.ApplicationService = appServices.NewApplicationService(
		deps.Repos.ApplicationRepository,
		deps.Repos.ScholarshipRepository,
		deps.Repos.StudentRepository,
		deps.Repos.PaymentRepository,
		database,
		deps.NotificationService,
		deps.AuditService,
		cfg,
		lgr,
	)
	deps.DocumentService = appServices.NewDocumentService(
		deps.Repos.DocumentRepository,
		deps.Repos.StudentRepository,
		deps.Repos.ApplicationRepository,
		deps.FileStorage,
		deps.NotificationService,
		deps.AuditService,
		cfg,
		lgr,
	)
	deps.PaymentService = appServices.NewPaymentService(
		deps.Repos.PaymentRepository,
		deps.Repos.ApplicationRepository,
		deps.Repos.StudentRepository,
		deps.NotificationService,
		deps.AuditService,
		lgr,
	)
	deps.GDPRService = appServices.NewGDPRService(
		deps.Repos.UserRepository,
		deps.Repos.StudentRepository,
		deps.Repos.ApplicationRepository,
		deps.Repos.DocumentRepository,
		deps.Repos.NotificationRepository,
		deps.Repos.TokenRepository,
		deps.FileStorage,
		deps.AuditService,
		lgr,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(
		deps.JWTService,
		appAuth.NewAuthorizationService(deps.Repos.UserRepository),
	)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, lgr)
	deps.StudentController = appControllers.NewStudentController(deps.StudentService, lgr)
	deps.ScholarshipController = appControllers.NewScholarshipController(deps.ScholarshipService, lgr)
	deps.ApplicationController = appControllers.NewApplicationController(deps.ApplicationService, lgr)
	deps.DocumentController = appControllers.NewDocumentController(deps.DocumentService, lgr)
	deps.PaymentController = appControllers.NewPaymentController(deps.PaymentService, lgr)
	deps.NotificationController = appControllers.NewNotificationController(deps.NotificationService, lgr)
	deps.GDPRController = appControllers.NewGDPRController(deps.GDPRService, lgr)
	deps.AdminController = appControllers.NewAdminController(
		deps.Repos.UserRepository,
		deps.Repos.SystemConfigRepository,
		deps.AuditService,
		lgr,
	)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(appMiddleware.RequestLogger(lgr))
	router.Use(appMiddleware.Recovery(lgr))

	appRoutes.SetupSwagger(router)

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.StudentController,
		deps.ScholarshipController,
		deps.ApplicationController,
		deps.DocumentController,
		deps.PaymentController,
		deps.NotificationController,
		deps.GDPRController,
		deps.AdminController,
		deps.AuthMiddleware,
	)

	return router
}
