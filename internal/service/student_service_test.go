package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schoolmgmt/core-api/internal/models"
	"github.com/schoolmgmt/core-api/internal/validation"
	appErrors "github.com/schoolmgmt/core-api/pkg/errors"
)

type mockStudentRepo struct {
	items       map[int64]*models.Student
	codeIndex   map[string]int64
	listResult  []models.Student
	listTotal   int
	deleteErr   error
	createCalls int
	nextID      int64
}

func (m *mockStudentRepo) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	return m.listResult, m.listTotal, nil
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	if student, ok := m.items[id]; ok {
		cp := *student
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) FindByStudentID(ctx context.Context, studentID string) (*models.Student, error) {
	if id, ok := m.codeIndex[studentID]; ok {
		return m.FindByID(ctx, id)
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) ExistsByStudentID(ctx context.Context, studentID string, excludeID int64) (bool, error) {
	if owner, ok := m.codeIndex[studentID]; ok && owner != excludeID {
		return true, nil
	}
	return false, nil
}

func (m *mockStudentRepo) Create(ctx context.Context, student *models.Student) error {
	m.createCalls++
	if m.items == nil {
		m.items = make(map[int64]*models.Student)
	}
	m.nextID++
	student.BeforeInsert(time.Now().UTC())
	student.ID = m.nextID
	cp := *student
	m.items[student.ID] = &cp
	return nil
}

func (m *mockStudentRepo) Update(ctx context.Context, student *models.Student) error {
	if m.items == nil {
		m.items = make(map[int64]*models.Student)
	}
	student.BeforeUpdate(time.Now().UTC())
	cp := *student
	m.items[student.ID] = &cp
	return nil
}

func (m *mockStudentRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.items, id)
	return nil
}

type mockClassRepo struct {
	items map[int64]*models.SchoolClass
}

func (m *mockClassRepo) FindByID(ctx context.Context, id int64) (*models.SchoolClass, error) {
	if class, ok := m.items[id]; ok {
		cp := *class
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func validStudent() *models.Student {
	return &models.Student{
		StudentID:           "STU001",
		FirstName:           "Grace",
		LastName:            "Hopper",
		DateOfBirth:         time.Date(2010, 12, 9, 0, 0, 0, 0, time.UTC),
		Address:             "7 Compiler Court",
		ParentGuardianName:  "Mary Hopper",
		ParentGuardianPhone: "+15550009876",
		Gender:              models.GenderFemale,
	}
}

func newStudentService(repo *mockStudentRepo, classes *mockClassRepo) *StudentService {
	var finder classFinder
	if classes != nil {
		finder = classes
	}
	return NewStudentService(repo, finder, nil, nil, nil, nil, nil, validation.New(), zap.NewNop())
}

func TestStudentServiceCreateDefaultsEnrollmentDate(t *testing.T) {
	repo := &mockStudentRepo{}
	service := newStudentService(repo, nil)

	student, err := service.Create(context.Background(), validStudent())
	require.NoError(t, err)
	assert.Equal(t, models.StudentStatusActive, student.Status)
	assert.Equal(t, validation.Today(), student.EnrollmentDate)
	assert.Equal(t, student.CreatedAt, student.UpdatedAt)
}

func TestStudentServiceCreateKeepsExplicitEnrollmentDate(t *testing.T) {
	repo := &mockStudentRepo{}
	service := newStudentService(repo, nil)

	explicit := validStudent()
	explicit.EnrollmentDate = time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC)
	student, err := service.Create(context.Background(), explicit)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC), student.EnrollmentDate)
}

func TestStudentServiceCreateDuplicateStudentID(t *testing.T) {
	repo := &mockStudentRepo{codeIndex: map[string]int64{"STU001": 3}}
	service := newStudentService(repo, nil)

	_, err := service.Create(context.Background(), validStudent())
	require.Error(t, err)
	assert.True(t, appErrors.IsConflict(err))
	assert.Equal(t, "student_id", appErrors.FromError(err).Key)
	assert.Zero(t, repo.createCalls)
}

func TestStudentServiceCreateUnknownClass(t *testing.T) {
	repo := &mockStudentRepo{}
	classes := &mockClassRepo{}
	service := newStudentService(repo, classes)

	classID := int64(12)
	student := validStudent()
	student.ClassID = &classID

	_, err := service.Create(context.Background(), student)
	require.Error(t, err)
	assert.True(t, appErrors.IsConflict(err))
	assert.Equal(t, "class_id", appErrors.FromError(err).Key)
	assert.Zero(t, repo.createCalls)
}

func TestStudentServiceCreateKnownClass(t *testing.T) {
	repo := &mockStudentRepo{}
	classes := &mockClassRepo{items: map[int64]*models.SchoolClass{12: {ID: 12, ClassName: "Grade 10-A"}}}
	service := newStudentService(repo, classes)

	classID := int64(12)
	student := validStudent()
	student.ClassID = &classID

	created, err := service.Create(context.Background(), student)
	require.NoError(t, err)
	require.NotNil(t, created.ClassID)
	assert.Equal(t, int64(12), *created.ClassID)
}

func TestStudentServiceCreateInvalidGuardianEmail(t *testing.T) {
	repo := &mockStudentRepo{}
	service := newStudentService(repo, nil)

	bad := "not-an-email"
	student := validStudent()
	student.ParentGuardianEmail = &bad

	_, err := service.Create(context.Background(), student)
	require.Error(t, err)
	assert.True(t, appErrors.IsValidation(err))
	require.Len(t, appErrors.FromError(err).Fields, 1)
	assert.Equal(t, "parent_guardian_email", appErrors.FromError(err).Fields[0].Field)
	assert.Zero(t, repo.createCalls)
}

type mockGradeStore struct {
	created []models.Grade
	nextID  int64
}

func (m *mockGradeStore) ListByStudent(ctx context.Context, studentID int64) ([]models.GradeDetail, error) {
	var out []models.GradeDetail
	for _, g := range m.created {
		if g.StudentID == studentID {
			out = append(out, models.GradeDetail{Grade: g})
		}
	}
	return out, nil
}

func (m *mockGradeStore) Create(ctx context.Context, grade *models.Grade) error {
	m.nextID++
	grade.ID = m.nextID
	m.created = append(m.created, *grade)
	return nil
}

type mockAttendanceStore struct {
	created []models.Attendance
	nextID  int64
}

func (m *mockAttendanceStore) ListByStudent(ctx context.Context, studentID int64) ([]models.Attendance, error) {
	var out []models.Attendance
	for _, a := range m.created {
		if a.StudentID == studentID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockAttendanceStore) Create(ctx context.Context, att *models.Attendance) error {
	m.nextID++
	att.ID = m.nextID
	m.created = append(m.created, *att)
	return nil
}

func newStudentServiceWithChildren(repo *mockStudentRepo, grades *mockGradeStore, attendances *mockAttendanceStore) *StudentService {
	return NewStudentService(repo, nil, grades, attendances, nil, nil, nil, validation.New(), zap.NewNop())
}

func TestStudentServiceRecordGrade(t *testing.T) {
	created := validStudent()
	created.ID = 1
	repo := &mockStudentRepo{items: map[int64]*models.Student{1: created}}
	grades := &mockGradeStore{}
	service := newStudentServiceWithChildren(repo, grades, nil)

	grade, err := service.RecordGrade(context.Background(), &models.Grade{StudentID: 1, SubjectID: 5, GradeValue: 88.5})
	require.NoError(t, err)
	assert.NotZero(t, grade.ID)
	require.Len(t, grades.created, 1)

	listed, err := service.Grades(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, 88.5, listed[0].GradeValue)
}

func TestStudentServiceRecordGradeOutOfRange(t *testing.T) {
	created := validStudent()
	created.ID = 1
	repo := &mockStudentRepo{items: map[int64]*models.Student{1: created}}
	grades := &mockGradeStore{}
	service := newStudentServiceWithChildren(repo, grades, nil)

	_, err := service.RecordGrade(context.Background(), &models.Grade{StudentID: 1, SubjectID: 5, GradeValue: 101})
	require.Error(t, err)
	assert.True(t, appErrors.IsValidation(err))
	assert.Equal(t, "Grade value cannot exceed 100", appErrors.FromError(err).Fields[0].Message)
	assert.Empty(t, grades.created)
}

func TestStudentServiceRecordGradeUnknownStudent(t *testing.T) {
	grades := &mockGradeStore{}
	service := newStudentServiceWithChildren(&mockStudentRepo{}, grades, nil)

	_, err := service.RecordGrade(context.Background(), &models.Grade{StudentID: 9, SubjectID: 5, GradeValue: 70})
	require.Error(t, err)
	assert.True(t, appErrors.IsNotFound(err))
	assert.Empty(t, grades.created)
}

func TestStudentServiceRecordAttendance(t *testing.T) {
	created := validStudent()
	created.ID = 1
	repo := &mockStudentRepo{items: map[int64]*models.Student{1: created}}
	attendances := &mockAttendanceStore{}
	service := newStudentServiceWithChildren(repo, nil, attendances)

	att, err := service.RecordAttendance(context.Background(), &models.Attendance{
		StudentID: 1,
		Date:      time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		Status:    models.AttendanceStatusPresent,
	})
	require.NoError(t, err)
	assert.NotZero(t, att.ID)
	require.Len(t, attendances.created, 1)
}

func TestStudentServiceRecordAttendanceInvalidStatus(t *testing.T) {
	created := validStudent()
	created.ID = 1
	repo := &mockStudentRepo{items: map[int64]*models.Student{1: created}}
	attendances := &mockAttendanceStore{}
	service := newStudentServiceWithChildren(repo, nil, attendances)

	_, err := service.RecordAttendance(context.Background(), &models.Attendance{
		StudentID: 1,
		Date:      time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		Status:    "TARDY",
	})
	require.Error(t, err)
	assert.True(t, appErrors.IsValidation(err))
	assert.Empty(t, attendances.created)
}

func TestStudentServiceUpdatePreservesCreatedAt(t *testing.T) {
	created := validStudent()
	created.ID = 1
	created.Status = models.StudentStatusActive
	created.EnrollmentDate = time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC)
	created.CreatedAt = time.Date(2023, 9, 1, 8, 0, 0, 0, time.UTC)
	created.UpdatedAt = created.CreatedAt

	repo := &mockStudentRepo{items: map[int64]*models.Student{1: created}}
	service := newStudentService(repo, nil)

	changed := *created
	changed.Address = "9 Compiler Court"
	updated, err := service.Update(context.Background(), &changed)
	require.NoError(t, err)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(created.CreatedAt))
}

func TestStudentServiceDeleteReferentialConflict(t *testing.T) {
	created := validStudent()
	created.ID = 1
	repo := &mockStudentRepo{
		items:     map[int64]*models.Student{1: created},
		deleteErr: appErrors.Conflict("student_id", "referenced student_id does not exist"),
	}
	service := newStudentService(repo, nil)

	err := service.Delete(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, appErrors.IsConflict(err))
}

func TestStudentServiceDeleteNotFound(t *testing.T) {
	service := newStudentService(&mockStudentRepo{}, nil)

	err := service.Delete(context.Background(), 55)
	require.Error(t, err)
	assert.True(t, appErrors.IsNotFound(err))
}

func TestStudentServiceGetNotFound(t *testing.T) {
	service := newStudentService(&mockStudentRepo{}, nil)

	_, err := service.Get(context.Background(), 55)
	require.Error(t, err)
	assert.True(t, appErrors.IsNotFound(err))
}
