package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/schoolmgmt/core-api/internal/models"
	"github.com/schoolmgmt/core-api/internal/validation"
	appErrors "github.com/schoolmgmt/core-api/pkg/errors"
)

const (
	teacherCacheKey     = "teacher:%d"
	teacherCachePattern = "teacher:*"
)

type teacherRepository interface {
	List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, int, error)
	FindByID(ctx context.Context, id int64) (*models.Teacher, error)
	FindByTeacherID(ctx context.Context, teacherID string) (*models.Teacher, error)
	ExistsByTeacherID(ctx context.Context, teacherID string, excludeID int64) (bool, error)
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
	Create(ctx context.Context, teacher *models.Teacher) error
	Update(ctx context.Context, teacher *models.Teacher) error
	Delete(ctx context.Context, id int64) error
}

type teacherClassLister interface {
	ListByTeacher(ctx context.Context, teacherID int64) ([]models.SchoolClass, error)
}

type auditRecorder interface {
	Record(ctx context.Context, log *models.AuditLog) error
}

// TeacherService orchestrates teacher operations: rule-table validation,
// uniqueness checks, persistence with lifecycle hooks, caching and auditing.
type TeacherService struct {
	repo    teacherRepository
	classes teacherClassLister
	audit   auditRecorder
	cache   *CacheService
	metrics *MetricsService
	rules   *validation.Validator
	logger  *zap.Logger
}

// NewTeacherService constructs a TeacherService.
func NewTeacherService(repo teacherRepository, classes teacherClassLister, audit auditRecorder, cache *CacheService, metrics *MetricsService, rules *validation.Validator, logger *zap.Logger) *TeacherService {
	if rules == nil {
		rules = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{repo: repo, classes: classes, audit: audit, cache: cache, metrics: metrics, rules: rules, logger: logger}
}

// List returns teachers plus pagination data.
func (s *TeacherService) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, *models.Pagination, error) {
	start := time.Now()
	teachers, total, err := s.repo.List(ctx, filter)
	s.metrics.ObserveDBQuery("teachers_list", time.Since(start))
	if err != nil {
		return nil, nil, appErrors.Store(err, "failed to list teachers")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return teachers, pagination, nil
}

// Get returns a teacher by surrogate id, consulting the cache first.
func (s *TeacherService) Get(ctx context.Context, id int64) (*models.Teacher, error) {
	key := fmt.Sprintf(teacherCacheKey, id)
	var cached models.Teacher
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return &cached, nil
	}

	start := time.Now()
	teacher, err := s.repo.FindByID(ctx, id)
	s.metrics.ObserveDBQuery("teachers_find", time.Since(start))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Store(err, "failed to load teacher")
	}

	if err := s.cache.Set(ctx, key, teacher, 0); err != nil {
		s.logger.Warn("teacher cache set failed", zap.Int64("id", id), zap.Error(err))
	}
	return teacher, nil
}

// GetByTeacherID returns a teacher by business identifier.
func (s *TeacherService) GetByTeacherID(ctx context.Context, teacherID string) (*models.Teacher, error) {
	teacher, err := s.repo.FindByTeacherID(ctx, teacherID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Store(err, "failed to load teacher")
	}
	return teacher, nil
}

// Create validates and persists a new teacher. Every rule failure is
// reported in one pass; insert hooks run inside the repository.
func (s *TeacherService) Create(ctx context.Context, teacher *models.Teacher) (*models.Teacher, error) {
	if violations := s.rules.Apply(teacher.Rules()); len(violations) > 0 {
		s.metrics.RecordValidationFailure("teacher")
		return nil, appErrors.Validation(violations)
	}
	if err := s.ensureUnique(ctx, teacher, 0); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, teacher); err != nil {
		if appErrors.IsConflict(err) {
			return nil, err
		}
		return nil, appErrors.Store(err, "failed to create teacher")
	}

	s.metrics.RecordEntityWrite("teacher", "create")
	s.recordAudit(ctx, models.AuditActionTeacherCreate, teacher.ID, nil, teacher)
	s.invalidate(ctx)
	return teacher, nil
}

// Update validates and persists changes to an existing teacher. The
// update hook refreshes updated_at while created_at stays untouched.
func (s *TeacherService) Update(ctx context.Context, teacher *models.Teacher) (*models.Teacher, error) {
	existing, err := s.repo.FindByID(ctx, teacher.ID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Store(err, "failed to load teacher")
	}

	if violations := s.rules.Apply(teacher.Rules()); len(violations) > 0 {
		s.metrics.RecordValidationFailure("teacher")
		return nil, appErrors.Validation(violations)
	}
	if err := s.ensureUnique(ctx, teacher, teacher.ID); err != nil {
		return nil, err
	}

	teacher.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, teacher); err != nil {
		if appErrors.IsConflict(err) {
			return nil, err
		}
		return nil, appErrors.Store(err, "failed to update teacher")
	}

	s.metrics.RecordEntityWrite("teacher", "update")
	s.recordAudit(ctx, models.AuditActionTeacherUpdate, teacher.ID, existing, teacher)
	s.invalidate(ctx)
	return teacher, nil
}

// Delete removes a teacher together with its owned class and assignment
// rows. The cascade runs in one transaction inside the repository.
func (s *TeacherService) Delete(ctx context.Context, id int64) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return appErrors.Store(err, "failed to load teacher")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if appErrors.IsConflict(err) {
			return err
		}
		return appErrors.Store(err, "failed to delete teacher")
	}

	s.metrics.RecordEntityWrite("teacher", "delete")
	s.recordAudit(ctx, models.AuditActionTeacherDelete, id, existing, nil)
	s.invalidate(ctx)
	return nil
}

// Classes loads the classes a teacher is responsible for. The collection
// is fetched on demand rather than with the teacher record.
func (s *TeacherService) Classes(ctx context.Context, teacherID int64) ([]models.SchoolClass, error) {
	if s.classes == nil {
		return nil, nil
	}
	classes, err := s.classes.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Store(err, "failed to list teacher classes")
	}
	return classes, nil
}

func (s *TeacherService) ensureUnique(ctx context.Context, teacher *models.Teacher, excludeID int64) error {
	exists, err := s.repo.ExistsByTeacherID(ctx, teacher.TeacherID, excludeID)
	if err != nil {
		return appErrors.Store(err, "failed to check teacher id uniqueness")
	}
	if exists {
		s.metrics.RecordConflict("teacher", "teacher_id")
		return appErrors.Conflict("teacher_id", "Teacher ID already exists")
	}
	exists, err = s.repo.ExistsByEmail(ctx, teacher.Email, excludeID)
	if err != nil {
		return appErrors.Store(err, "failed to check email uniqueness")
	}
	if exists {
		s.metrics.RecordConflict("teacher", "email")
		return appErrors.Conflict("email", "Email already exists")
	}
	return nil
}

func (s *TeacherService) recordAudit(ctx context.Context, action string, id int64, oldValue, newValue interface{}) {
	if s.audit == nil {
		return
	}
	entry := &models.AuditLog{
		Action:     action,
		Resource:   "teacher",
		ResourceID: &id,
		CreatedAt:  time.Now().UTC(),
	}
	if oldValue != nil {
		entry.OldValues, _ = json.Marshal(oldValue)
	}
	if newValue != nil {
		entry.NewValues, _ = json.Marshal(newValue)
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		s.logger.Warn("audit record failed", zap.String("action", action), zap.Error(err))
	}
}

func (s *TeacherService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, teacherCachePattern); err != nil {
		s.logger.Warn("teacher cache invalidation failed", zap.Error(err))
	}
}
