// Package app assembles the repositories and services shared by the HTTP server and the admin CLI.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/internal/repository"
	"github.com/noah-isme/school-portal-api/internal/service"
	"github.com/noah-isme/school-portal-api/pkg/cache"
	"github.com/noah-isme/school-portal-api/pkg/config"
	"github.com/noah-isme/school-portal-api/pkg/database"
	"github.com/noah-isme/school-portal-api/pkg/jobs"
)

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger *zap.Logger
	DB     *sqlx.DB
	Redis  *redis.Client

	Metrics      *service.MetricsService
	Events       *service.ReplacementEventDispatcher
	Auth         *service.AuthService
	Teachers     *service.TeacherService
	Schedule     *service.ScheduleService
	Substitution *service.SubstitutionService
	Timetable    *service.TimetableService
	Catalog      *service.CatalogService
	Finder       *service.SubstituteFinder

	cacheRepo *repository.CacheRepository
}

// New connects to Postgres and, when enabled, Redis, then wires every service.
// Call Start to run background workers and Close on shutdown.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	location, err := time.LoadLocation(cfg.Timetable.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load school timezone %q: %w", cfg.Timetable.Timezone, err)
	}

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if redisClient == nil {
		logger.Info("redis disabled, timetable cache and ledger events are no-ops")
	}

	a := &App{Config: cfg, Logger: logger, DB: db, Redis: redisClient}
	a.wire(location)
	return a, nil
}

func (a *App) wire(location *time.Location) {
	cfg := a.Config
	logger := a.Logger
	validate := validator.New()
	mode := models.ConflictMode(cfg.Substitution.ConflictMode)

	teacherRepo := repository.NewTeacherRepository(a.DB)
	scheduleRepo := repository.NewScheduleRepository(a.DB)
	replacementRepo := repository.NewReplacementRepository(a.DB)
	auditRepo := repository.NewAuditRepository(a.DB)
	subjectRepo := repository.NewSubjectRepository(a.DB)
	courseRepo := repository.NewCourseRepository(a.DB)
	a.cacheRepo = repository.NewCacheRepository(a.Redis, logger)

	a.Metrics = service.NewMetricsService()
	cacheSvc := service.NewCacheService(a.cacheRepo, a.Metrics, cfg.Timetable.CacheTTL, logger)

	a.Auth = service.NewAuthService(logger, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	a.Teachers = service.NewTeacherService(teacherRepo, auditRepo, validate, logger)
	a.Schedule = service.NewScheduleService(a.DB, scheduleRepo, teacherRepo, courseRepo, subjectRepo, auditRepo, cacheSvc, mode, validate, logger)
	a.Finder = service.NewSubstituteFinder(teacherRepo, scheduleRepo, mode, logger)

	opts := []service.SubstitutionServiceOption{service.WithSubstitutionMetrics(a.Metrics)}
	if cfg.Substitution.EventsEnabled {
		a.Events = service.NewReplacementEventDispatcher(a.cacheRepo, cfg.Substitution.EventsChannel, jobs.QueueConfig{
			Workers:      cfg.Substitution.EventWorkers,
			BufferSize:   cfg.Substitution.EventBuffer,
			MaxRetries:   cfg.Substitution.EventRetries,
			RetryDelay:   time.Second,
			DrainTimeout: cfg.Substitution.EventDrainTimeout,
		}, a.Metrics, logger)
		opts = append(opts, service.WithReplacementPublisher(a.Events))
	}
	a.Substitution = service.NewSubstitutionService(
		a.DB,
		a.Finder,
		scheduleRepo,
		teacherRepo,
		replacementRepo,
		auditRepo,
		service.SubstitutionConfig{RejectExcludesCurrent: cfg.Substitution.RejectExcludesCurrent},
		validate,
		logger,
		opts...,
	)
	a.Catalog = service.NewCatalogService(subjectRepo, courseRepo, cacheSvc, logger)
	a.Timetable = service.NewTimetableService(scheduleRepo, replacementRepo, courseRepo, teacherRepo, cacheSvc, service.TimetableConfig{
		CacheTTL: cfg.Timetable.CacheTTL,
		Location: location,
	}, logger)
}

// Start launches the event workers when ledger events are enabled.
func (a *App) Start(ctx context.Context) {
	if a.Events != nil {
		a.Events.Start(ctx)
	}
}

// Close stops workers and releases connections.
func (a *App) Close() {
	if a.Events != nil {
		a.Events.Stop()
	}
	if err := a.cacheRepo.Close(); err != nil {
		a.Logger.Warn("failed to close redis", zap.Error(err))
	}
	if err := a.DB.Close(); err != nil {
		a.Logger.Warn("failed to close database", zap.Error(err))
	}
}
