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
	subjectCacheKey     = "subject:%d"
	subjectCachePattern = "subject:*"
)

type subjectRepository interface {
	List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, int, error)
	FindByID(ctx context.Context, id int64) (*models.Subject, error)
	FindBySubjectCode(ctx context.Context, code string) (*models.Subject, error)
	ExistsBySubjectCode(ctx context.Context, code string, excludeID int64) (bool, error)
	Create(ctx context.Context, subject *models.Subject) error
	Update(ctx context.Context, subject *models.Subject) error
	Delete(ctx context.Context, id int64) error
}

type subjectGradeLister interface {
	ListBySubject(ctx context.Context, subjectID int64) ([]models.Grade, error)
}

// SubjectService orchestrates subject operations.
type SubjectService struct {
	repo    subjectRepository
	grades  subjectGradeLister
	audit   auditRecorder
	cache   *CacheService
	metrics *MetricsService
	rules   *validation.Validator
	logger  *zap.Logger
}

// NewSubjectService constructs a SubjectService.
func NewSubjectService(repo subjectRepository, grades subjectGradeLister, audit auditRecorder, cache *CacheService, metrics *MetricsService, rules *validation.Validator, logger *zap.Logger) *SubjectService {
	if rules == nil {
		rules = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectService{repo: repo, grades: grades, audit: audit, cache: cache, metrics: metrics, rules: rules, logger: logger}
}

// List returns subjects plus pagination data.
func (s *SubjectService) List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, *models.Pagination, error) {
	start := time.Now()
	subjects, total, err := s.repo.List(ctx, filter)
	s.metrics.ObserveDBQuery("subjects_list", time.Since(start))
	if err != nil {
		return nil, nil, appErrors.Store(err, "failed to list subjects")
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
	return subjects, pagination, nil
}

// Get returns a subject by surrogate id, consulting the cache first.
func (s *SubjectService) Get(ctx context.Context, id int64) (*models.Subject, error) {
	key := fmt.Sprintf(subjectCacheKey, id)
	var cached models.Subject
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return &cached, nil
	}

	start := time.Now()
	subject, err := s.repo.FindByID(ctx, id)
	s.metrics.ObserveDBQuery("subjects_find", time.Since(start))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Store(err, "failed to load subject")
	}

	if err := s.cache.Set(ctx, key, subject, 0); err != nil {
		s.logger.Warn("subject cache set failed", zap.Int64("id", id), zap.Error(err))
	}
	return subject, nil
}

// GetBySubjectCode returns a subject by business code.
func (s *SubjectService) GetBySubjectCode(ctx context.Context, code string) (*models.Subject, error) {
	subject, err := s.repo.FindBySubjectCode(ctx, code)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Store(err, "failed to load subject")
	}
	return subject, nil
}

// Create validates and persists a new subject.
func (s *SubjectService) Create(ctx context.Context, subject *models.Subject) (*models.Subject, error) {
	if violations := s.rules.Apply(subject.Rules()); len(violations) > 0 {
		s.metrics.RecordValidationFailure("subject")
		return nil, appErrors.Validation(violations)
	}
	if err := s.ensureUnique(ctx, subject, 0); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, subject); err != nil {
		if appErrors.IsConflict(err) {
			return nil, err
		}
		return nil, appErrors.Store(err, "failed to create subject")
	}

	s.metrics.RecordEntityWrite("subject", "create")
	s.recordAudit(ctx, models.AuditActionSubjectCreate, subject.ID, nil, subject)
	s.invalidate(ctx)
	return subject, nil
}

// Update validates and persists changes to an existing subject.
func (s *SubjectService) Update(ctx context.Context, subject *models.Subject) (*models.Subject, error) {
	existing, err := s.repo.FindByID(ctx, subject.ID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Store(err, "failed to load subject")
	}

	if violations := s.rules.Apply(subject.Rules()); len(violations) > 0 {
		s.metrics.RecordValidationFailure("subject")
		return nil, appErrors.Validation(violations)
	}
	if err := s.ensureUnique(ctx, subject, subject.ID); err != nil {
		return nil, err
	}

	subject.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, subject); err != nil {
		if appErrors.IsConflict(err) {
			return nil, err
		}
		return nil, appErrors.Store(err, "failed to update subject")
	}

	s.metrics.RecordEntityWrite("subject", "update")
	s.recordAudit(ctx, models.AuditActionSubjectUpdate, subject.ID, existing, subject)
	s.invalidate(ctx)
	return subject, nil
}

// Delete removes a subject together with its owned assignment and grade
// rows in one transaction.
func (s *SubjectService) Delete(ctx context.Context, id int64) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return appErrors.Store(err, "failed to load subject")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if appErrors.IsConflict(err) {
			return err
		}
		return appErrors.Store(err, "failed to delete subject")
	}

	s.metrics.RecordEntityWrite("subject", "delete")
	s.recordAudit(ctx, models.AuditActionSubjectDelete, id, existing, nil)
	s.invalidate(ctx)
	return nil
}

// Grades loads the grades recorded for a subject across all students.
func (s *SubjectService) Grades(ctx context.Context, subjectID int64) ([]models.Grade, error) {
	if s.grades == nil {
		return nil, nil
	}
	grades, err := s.grades.ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, appErrors.Store(err, "failed to list subject grades")
	}
	return grades, nil
}

func (s *SubjectService) ensureUnique(ctx context.Context, subject *models.Subject, excludeID int64) error {
	exists, err := s.repo.ExistsBySubjectCode(ctx, subject.SubjectCode, excludeID)
	if err != nil {
		return appErrors.Store(err, "failed to check subject code uniqueness")
	}
	if exists {
		s.metrics.RecordConflict("subject", "subject_code")
		return appErrors.Conflict("subject_code", "Subject code already exists")
	}
	return nil
}

func (s *SubjectService) recordAudit(ctx context.Context, action string, id int64, oldValue, newValue interface{}) {
	if s.audit == nil {
		return
	}
	entry := &models.AuditLog{
		Action:     action,
		Resource:   "subject",
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

func (s *SubjectService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, subjectCachePattern); err != nil {
		s.logger.Warn("subject cache invalidation failed", zap.Error(err))
	}
}
