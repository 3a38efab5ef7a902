package app

import (
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/schoolmgmt/core-api/internal/repository"
	"github.com/schoolmgmt/core-api/internal/service"
	"github.com/schoolmgmt/core-api/internal/validation"
	"github.com/schoolmgmt/core-api/pkg/cache"
	"github.com/schoolmgmt/core-api/pkg/config"
	"github.com/schoolmgmt/core-api/pkg/database"
	"github.com/schoolmgmt/core-api/pkg/logger"
)

// App is the composition root of the domain core. It owns the database and
// cache connections and hands out fully wired services to the embedding
// program. Redis is optional; when it is unreachable the core degrades to
// uncached reads instead of failing startup.
type App struct {
	Config *config.Config
	Logger *zap.Logger

	Teachers    *service.TeacherService
	Students    *service.StudentService
	Subjects    *service.SubjectService
	Assignments *service.AssignmentService
	Audit       *service.AuditService
	Metrics     *service.MetricsService

	db    *sqlx.DB
	redis *redis.Client
}

// New loads configuration, connects the backing stores and wires every
// repository and service.
func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	metrics := service.NewMetricsService()

	var redisClient *redis.Client
	var cacheSvc *service.CacheService
	if cfg.Cache.Enabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, caching disabled", zap.Error(err))
		} else {
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, true)
		}
	}

	rules := validation.New()

	teacherRepo := repository.NewTeacherRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	classRepo := repository.NewClassRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	assignmentRepo := repository.NewTeacherSubjectRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	return &App{
		Config:      cfg,
		Logger:      logr,
		Teachers:    service.NewTeacherService(teacherRepo, classRepo, auditRepo, cacheSvc, metrics, rules, logr),
		Students:    service.NewStudentService(studentRepo, classRepo, gradeRepo, attendanceRepo, auditRepo, cacheSvc, metrics, rules, logr),
		Subjects:    service.NewSubjectService(subjectRepo, gradeRepo, auditRepo, cacheSvc, metrics, rules, logr),
		Assignments: service.NewAssignmentService(assignmentRepo, teacherRepo, subjectRepo, auditRepo, metrics, logr),
		Audit:       service.NewAuditService(auditRepo, logr),
		Metrics:     metrics,
		db:          db,
		redis:       redisClient,
	}, nil
}

// MetricsHandler exposes the Prometheus scrape endpoint for the embedding
// program to mount where it sees fit.
func (a *App) MetricsHandler() http.Handler {
	return a.Metrics.Handler()
}

// Close releases the database and cache connections.
func (a *App) Close() error {
	var firstErr error
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			firstErr = err
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
	return firstErr
}
