package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/placementcrm/internal/app/controllers"
	appMigrations "github.com/yigit/placementcrm/internal/app/migrations"
	appRepos "github.com/yigit/placementcrm/internal/app/repositories"
	appRoutes "github.com/yigit/placementcrm/internal/app/routes"
	appServices "github.com/yigit/placementcrm/internal/app/services"
	"github.com/yigit/placementcrm/internal/config"
	"github.com/yigit/placementcrm/internal/db"
	appMiddleware "github.com/yigit/placementcrm/internal/middleware"
	pkgAuth "github.com/yigit/placementcrm/internal/pkg/auth"
	"github.com/yigit/placementcrm/internal/pkg/email"
	"github.com/yigit/placementcrm/internal/pkg/filestorage"
	"github.com/yigit/placementcrm/internal/pkg/helpers"
	"github.com/yigit/placementcrm/internal/pkg/idgen"
	"github.com/yigit/placementcrm/internal/pkg/logger"
	"github.com/yigit/placementcrm/internal/pkg/metrics"
	"github.com/yigit/placementcrm/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos          *appRepos.Repositories
	Generator      *idgen.Generator
	Allocator      *idgen.Allocator
	Metrics        *metrics.Metrics
	JWTService     *pkgAuth.JWTService
	FileStorage    *filestorage.LocalStorage
	AuthMiddleware *appMiddleware.AuthMiddleware
	Controllers    appRoutes.Controllers
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
// CONFIG_PATH overrides the default configs/config.yaml.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := config.GetEnv("CONFIG_PATH", "configs/config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logger.Configure(logger.ConfigFromStrings(cfg.Logging.Level, cfg.Logging.Format))

	lgr := logger.Get()
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and seeds default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool
	lgr.Info().Msg("Database connection successfully established.")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		dbPool.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Str("path", migrationsDir).Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool, logger.WithComponent("migrations"))
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if cfg.Seed.Enabled {
		repos := appRepos.NewRepositories(dbPool)
		err := seed.CreateDefaultData(ctx, repos.EmployeeRepository, repos.CourseRepository,
			cfg.Seed.AdminEmail, cfg.Seed.AdminPassword, logger.WithComponent("seed"))
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	return dbPool, nil
}

// BuildDependencies initializes repositories, the identifier generator, services and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, cfg.PublicBaseURL()+"/uploads")
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.Metrics, err = metrics.New(nil)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to register metrics")
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	deps.Generator = idgen.NewGenerator(idgen.Options{
		Branches:            cfg.Identifiers.Branches,
		CourseTypes:         cfg.Identifiers.CourseTypes,
		Departments:         cfg.Identifiers.Departments,
		StudentSequenceSeed: cfg.Identifiers.StudentSequenceSeed,
		JobSequenceWidth:    cfg.Identifiers.JobSequenceWidth,
	}, deps.Repos.StudentRepository, deps.Repos.JobRepository)
	deps.Allocator = idgen.NewAllocator(cfg.Identifiers.MaxAllocationAttempts, deps.Metrics)

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
		UseTLS:    cfg.SMTP.UseTLS,
	}, logger.WithComponent("email"))

	repos := deps.Repos
	authService := appServices.NewAuthService(repos.EmployeeRepository, repos.TokenRepository, deps.JWTService, logger.WithComponent("auth"))
	studentService := appServices.NewStudentService(repos.StudentRepository, repos.CourseRepository,
		deps.Generator, deps.Allocator, emailService, deps.FileStorage, logger.WithComponent("students"))
	jobService := appServices.NewJobService(repos.JobRepository, repos.StudentRepository,
		deps.Generator, deps.Allocator, logger.WithComponent("jobs"))
	catalogService := appServices.NewCatalogService(repos.CourseRepository, deps.Generator, logger.WithComponent("catalog"))
	invoiceService := appServices.NewInvoiceService(repos.InvoiceRepository, repos.StudentRepository, emailService, logger.WithComponent("invoices"))
	attendanceService := appServices.NewAttendanceService(repos.AttendanceRepository, repos.StudentRepository, logger.WithComponent("attendance"))

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.Controllers = appRoutes.Controllers{
		Auth:       appControllers.NewAuthController(authService, lgr),
		Student:    appControllers.NewStudentController(studentService, lgr),
		Job:        appControllers.NewJobController(jobService, lgr),
		Catalog:    appControllers.NewCatalogController(catalogService, lgr),
		Invoice:    appControllers.NewInvoiceController(invoiceService, lgr),
		Attendance: appControllers.NewAttendanceController(attendanceService, lgr),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if removed, err := repos.TokenRepository.CleanupExpiredTokens(ctx); err != nil {
		lgr.Warn().Err(err).Msg("Failed to clean up expired refresh tokens")
	} else if removed > 0 {
		lgr.Info().Int64("removed", removed).Msg("Expired refresh tokens cleaned up")
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(deps.Metrics))

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
