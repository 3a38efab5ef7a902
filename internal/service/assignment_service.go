package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/schoolmgmt/core-api/internal/models"
	appErrors "github.com/schoolmgmt/core-api/pkg/errors"
)

type assignmentRepository interface {
	Exists(ctx context.Context, teacherID, subjectID int64) (bool, error)
	FindByID(ctx context.Context, id int64) (*models.TeacherSubject, error)
	Create(ctx context.Context, ts *models.TeacherSubject) error
	Delete(ctx context.Context, id int64) error
	ListByTeacher(ctx context.Context, teacherID int64) ([]models.TeacherSubjectDetail, error)
	ListBySubject(ctx context.Context, subjectID int64) ([]models.TeacherSubjectDetail, error)
}

type teacherFinder interface {
	FindByID(ctx context.Context, id int64) (*models.Teacher, error)
}

type subjectFinder interface {
	FindByID(ctx context.Context, id int64) (*models.Subject, error)
}

// AssignmentService manages the teacher-subject join. Both sides must
// exist and a pair may only be assigned once.
type AssignmentService struct {
	repo     assignmentRepository
	teachers teacherFinder
	subjects subjectFinder
	audit    auditRecorder
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewAssignmentService constructs an AssignmentService.
func NewAssignmentService(repo assignmentRepository, teachers teacherFinder, subjects subjectFinder, audit auditRecorder, metrics *MetricsService, logger *zap.Logger) *AssignmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{repo: repo, teachers: teachers, subjects: subjects, audit: audit, metrics: metrics, logger: logger}
}

// Assign links a teacher to a subject after checking that both exist and
// the pair is not already assigned.
func (s *AssignmentService) Assign(ctx context.Context, assignment *models.TeacherSubject) (*models.TeacherSubject, error) {
	if _, err := s.teachers.FindByID(ctx, assignment.TeacherID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Store(err, "failed to load teacher")
	}
	if _, err := s.subjects.FindByID(ctx, assignment.SubjectID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Store(err, "failed to load subject")
	}

	exists, err := s.repo.Exists(ctx, assignment.TeacherID, assignment.SubjectID)
	if err != nil {
		return nil, appErrors.Store(err, "failed to check assignment uniqueness")
	}
	if exists {
		s.metrics.RecordConflict("assignment", "teacher_subject")
		return nil, appErrors.Conflict("teacher_subject", "Teacher is already assigned to this subject")
	}

	if err := s.repo.Create(ctx, assignment); err != nil {
		if appErrors.IsConflict(err) {
			return nil, err
		}
		return nil, appErrors.Store(err, "failed to create assignment")
	}

	s.metrics.RecordEntityWrite("assignment", "create")
	s.recordAudit(ctx, models.AuditActionAssignCreate, assignment.ID, assignment)
	return assignment, nil
}

// Unassign removes an existing teacher-subject link.
func (s *AssignmentService) Unassign(ctx context.Context, id int64) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return appErrors.Store(err, "failed to load assignment")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if appErrors.IsConflict(err) {
			return err
		}
		return appErrors.Store(err, "failed to delete assignment")
	}

	s.metrics.RecordEntityWrite("assignment", "delete")
	s.recordAudit(ctx, models.AuditActionAssignDelete, existing.ID, existing)
	return nil
}

// SubjectsForTeacher lists a teacher's assignments with subject details.
func (s *AssignmentService) SubjectsForTeacher(ctx context.Context, teacherID int64) ([]models.TeacherSubjectDetail, error) {
	details, err := s.repo.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Store(err, "failed to list subjects for teacher")
	}
	return details, nil
}

// TeachersForSubject lists a subject's assignments with teacher names.
func (s *AssignmentService) TeachersForSubject(ctx context.Context, subjectID int64) ([]models.TeacherSubjectDetail, error) {
	details, err := s.repo.ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, appErrors.Store(err, "failed to list teachers for subject")
	}
	return details, nil
}

func (s *AssignmentService) recordAudit(ctx context.Context, action string, id int64, value interface{}) {
	if s.audit == nil {
		return
	}
	entry := &models.AuditLog{
		Action:     action,
		Resource:   "assignment",
		ResourceID: &id,
		CreatedAt:  time.Now().UTC(),
	}
	if value != nil {
		entry.NewValues, _ = json.Marshal(value)
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		s.logger.Warn("audit record failed", zap.String("action", action), zap.Error(err))
	}
}
