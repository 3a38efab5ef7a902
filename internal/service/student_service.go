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
	studentCacheKey     = "student:%d"
	studentCachePattern = "student:*"
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	FindByID(ctx context.Context, id int64) (*models.Student, error)
	FindByStudentID(ctx context.Context, studentID string) (*models.Student, error)
	ExistsByStudentID(ctx context.Context, studentID string, excludeID int64) (bool, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id int64) error
}

type classFinder interface {
	FindByID(ctx context.Context, id int64) (*models.SchoolClass, error)
}

type gradeStore interface {
	ListByStudent(ctx context.Context, studentID int64) ([]models.GradeDetail, error)
	Create(ctx context.Context, grade *models.Grade) error
}

type attendanceStore interface {
	ListByStudent(ctx context.Context, studentID int64) ([]models.Attendance, error)
	Create(ctx context.Context, att *models.Attendance) error
}

// StudentService orchestrates student operations. Besides the shared
// validate-check-persist flow it verifies that a referenced class exists
// before a student row may point at it.
type StudentService struct {
	repo        studentRepository
	classes     classFinder
	grades      gradeStore
	attendances attendanceStore
	audit       auditRecorder
	cache       *CacheService
	metrics     *MetricsService
	rules       *validation.Validator
	logger      *zap.Logger
}

// NewStudentService constructs a StudentService.
func NewStudentService(repo studentRepository, classes classFinder, grades gradeStore, attendances attendanceStore, audit auditRecorder, cache *CacheService, metrics *MetricsService, rules *validation.Validator, logger *zap.Logger) *StudentService {
	if rules == nil {
		rules = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, classes: classes, grades: grades, attendances: attendances, audit: audit, cache: cache, metrics: metrics, rules: rules, logger: logger}
}

// List returns students plus pagination data.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	start := time.Now()
	students, total, err := s.repo.List(ctx, filter)
	s.metrics.ObserveDBQuery("students_list", time.Since(start))
	if err != nil {
		return nil, nil, appErrors.Store(err, "failed to list students")
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
	return students, pagination, nil
}

// Get returns a student by surrogate id, consulting the cache first.
func (s *StudentService) Get(ctx context.Context, id int64) (*models.Student, error) {
	key := fmt.Sprintf(studentCacheKey, id)
	var cached models.Student
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return &cached, nil
	}

	start := time.Now()
	student, err := s.repo.FindByID(ctx, id)
	s.metrics.ObserveDBQuery("students_find", time.Since(start))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Store(err, "failed to load student")
	}

	if err := s.cache.Set(ctx, key, student, 0); err != nil {
		s.logger.Warn("student cache set failed", zap.Int64("id", id), zap.Error(err))
	}
	return student, nil
}

// GetByStudentID returns a student by business identifier.
func (s *StudentService) GetByStudentID(ctx context.Context, studentID string) (*models.Student, error) {
	student, err := s.repo.FindByStudentID(ctx, studentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Store(err, "failed to load student")
	}
	return student, nil
}

// Create validates and persists a new student. When the enrollment date is
// absent the insert hook defaults it to today, so no required rule fires.
func (s *StudentService) Create(ctx context.Context, student *models.Student) (*models.Student, error) {
	if violations := s.rules.Apply(student.Rules()); len(violations) > 0 {
		s.metrics.RecordValidationFailure("student")
		return nil, appErrors.Validation(violations)
	}
	if err := s.ensureUnique(ctx, student, 0); err != nil {
		return nil, err
	}
	if err := s.ensureClassExists(ctx, student.ClassID); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, student); err != nil {
		if appErrors.IsConflict(err) {
			return nil, err
		}
		return nil, appErrors.Store(err, "failed to create student")
	}

	s.metrics.RecordEntityWrite("student", "create")
	s.recordAudit(ctx, models.AuditActionStudentCreate, student.ID, nil, student)
	s.invalidate(ctx)
	return student, nil
}

// Update validates and persists changes to an existing student.
func (s *StudentService) Update(ctx context.Context, student *models.Student) (*models.Student, error) {
	existing, err := s.repo.FindByID(ctx, student.ID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Store(err, "failed to load student")
	}

	if violations := s.rules.Apply(student.Rules()); len(violations) > 0 {
		s.metrics.RecordValidationFailure("student")
		return nil, appErrors.Validation(violations)
	}
	if err := s.ensureUnique(ctx, student, student.ID); err != nil {
		return nil, err
	}
	if err := s.ensureClassExists(ctx, student.ClassID); err != nil {
		return nil, err
	}

	student.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, student); err != nil {
		if appErrors.IsConflict(err) {
			return nil, err
		}
		return nil, appErrors.Store(err, "failed to update student")
	}

	s.metrics.RecordEntityWrite("student", "update")
	s.recordAudit(ctx, models.AuditActionStudentUpdate, student.ID, existing, student)
	s.invalidate(ctx)
	return student, nil
}

// Delete removes a student together with its owned grade and attendance
// rows in one transaction.
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Store(err, "failed to load student")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if appErrors.IsConflict(err) {
			return err
		}
		return appErrors.Store(err, "failed to delete student")
	}

	s.metrics.RecordEntityWrite("student", "delete")
	s.recordAudit(ctx, models.AuditActionStudentDelete, id, existing, nil)
	s.invalidate(ctx)
	return nil
}

// Grades loads a student's grades joined with subject details.
func (s *StudentService) Grades(ctx context.Context, studentID int64) ([]models.GradeDetail, error) {
	if s.grades == nil {
		return nil, nil
	}
	grades, err := s.grades.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Store(err, "failed to list student grades")
	}
	return grades, nil
}

// RecordGrade validates and stores a grade for a student. The student must
// exist; the subject reference is enforced by the store's foreign key.
func (s *StudentService) RecordGrade(ctx context.Context, grade *models.Grade) (*models.Grade, error) {
	if violations := s.rules.Apply(grade.Rules()); len(violations) > 0 {
		s.metrics.RecordValidationFailure("grade")
		return nil, appErrors.Validation(violations)
	}
	if _, err := s.repo.FindByID(ctx, grade.StudentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Store(err, "failed to load student")
	}

	if err := s.grades.Create(ctx, grade); err != nil {
		if appErrors.IsConflict(err) {
			return nil, err
		}
		return nil, appErrors.Store(err, "failed to record grade")
	}

	s.metrics.RecordEntityWrite("grade", "create")
	s.invalidate(ctx)
	return grade, nil
}

// RecordAttendance validates and stores an attendance entry for a student.
func (s *StudentService) RecordAttendance(ctx context.Context, att *models.Attendance) (*models.Attendance, error) {
	if violations := s.rules.Apply(att.Rules()); len(violations) > 0 {
		s.metrics.RecordValidationFailure("attendance")
		return nil, appErrors.Validation(violations)
	}
	if _, err := s.repo.FindByID(ctx, att.StudentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Store(err, "failed to load student")
	}

	if err := s.attendances.Create(ctx, att); err != nil {
		if appErrors.IsConflict(err) {
			return nil, err
		}
		return nil, appErrors.Store(err, "failed to record attendance")
	}

	s.metrics.RecordEntityWrite("attendance", "create")
	s.invalidate(ctx)
	return att, nil
}

// Attendances loads a student's attendance records.
func (s *StudentService) Attendances(ctx context.Context, studentID int64) ([]models.Attendance, error) {
	if s.attendances == nil {
		return nil, nil
	}
	attendances, err := s.attendances.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Store(err, "failed to list student attendances")
	}
	return attendances, nil
}

func (s *StudentService) ensureUnique(ctx context.Context, student *models.Student, excludeID int64) error {
	exists, err := s.repo.ExistsByStudentID(ctx, student.StudentID, excludeID)
	if err != nil {
		return appErrors.Store(err, "failed to check student id uniqueness")
	}
	if exists {
		s.metrics.RecordConflict("student", "student_id")
		return appErrors.Conflict("student_id", "Student ID already exists")
	}
	return nil
}

func (s *StudentService) ensureClassExists(ctx context.Context, classID *int64) error {
	if classID == nil || s.classes == nil {
		return nil
	}
	if _, err := s.classes.FindByID(ctx, *classID); err != nil {
		if err == sql.ErrNoRows {
			s.metrics.RecordConflict("student", "class_id")
			return appErrors.Conflict("class_id", "Class does not exist")
		}
		return appErrors.Store(err, "failed to check class reference")
	}
	return nil
}

func (s *StudentService) recordAudit(ctx context.Context, action string, id int64, oldValue, newValue interface{}) {
	if s.audit == nil {
		return
	}
	entry := &models.AuditLog{
		Action:     action,
		Resource:   "student",
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

func (s *StudentService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, studentCachePattern); err != nil {
		s.logger.Warn("student cache invalidation failed", zap.Error(err))
	}
}
