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

type mockSubjectRepo struct {
	items       map[int64]*models.Subject
	codeIndex   map[string]int64
	listResult  []models.Subject
	listTotal   int
	deleteErr   error
	createCalls int
	nextID      int64
}

func (m *mockSubjectRepo) List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, int, error) {
	return m.listResult, m.listTotal, nil
}

func (m *mockSubjectRepo) FindByID(ctx context.Context, id int64) (*models.Subject, error) {
	if subject, ok := m.items[id]; ok {
		cp := *subject
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockSubjectRepo) FindBySubjectCode(ctx context.Context, code string) (*models.Subject, error) {
	if id, ok := m.codeIndex[code]; ok {
		return m.FindByID(ctx, id)
	}
	return nil, sql.ErrNoRows
}

func (m *mockSubjectRepo) ExistsBySubjectCode(ctx context.Context, code string, excludeID int64) (bool, error) {
	if owner, ok := m.codeIndex[code]; ok && owner != excludeID {
		return true, nil
	}
	return false, nil
}

func (m *mockSubjectRepo) Create(ctx context.Context, subject *models.Subject) error {
	m.createCalls++
	if m.items == nil {
		m.items = make(map[int64]*models.Subject)
	}
	m.nextID++
	subject.BeforeInsert(time.Now().UTC())
	subject.ID = m.nextID
	cp := *subject
	m.items[subject.ID] = &cp
	return nil
}

func (m *mockSubjectRepo) Update(ctx context.Context, subject *models.Subject) error {
	if m.items == nil {
		m.items = make(map[int64]*models.Subject)
	}
	subject.BeforeUpdate(time.Now().UTC())
	cp := *subject
	m.items[subject.ID] = &cp
	return nil
}

func (m *mockSubjectRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.items, id)
	return nil
}

func validSubject() *models.Subject {
	return &models.Subject{
		SubjectCode: "MATH101",
		SubjectName: "Introductory Algebra",
		Credits:     4,
		Department:  "Mathematics",
	}
}

func newSubjectService(repo *mockSubjectRepo) *SubjectService {
	return NewSubjectService(repo, nil, nil, nil, nil, validation.New(), zap.NewNop())
}

func TestSubjectServiceCreate(t *testing.T) {
	repo := &mockSubjectRepo{}
	service := newSubjectService(repo)

	subject, err := service.Create(context.Background(), validSubject())
	require.NoError(t, err)
	assert.Equal(t, models.SubjectStatusActive, subject.Status)
	assert.Equal(t, subject.CreatedAt, subject.UpdatedAt)
	assert.Len(t, repo.items, 1)
}

func TestSubjectServiceCreateZeroCredits(t *testing.T) {
	repo := &mockSubjectRepo{}
	service := newSubjectService(repo)

	invalid := validSubject()
	invalid.Credits = 0

	_, err := service.Create(context.Background(), invalid)
	require.Error(t, err)
	assert.True(t, appErrors.IsValidation(err))
	require.Len(t, appErrors.FromError(err).Fields, 1)
	assert.Equal(t, "Credits must be at least 1", appErrors.FromError(err).Fields[0].Message)
	assert.Zero(t, repo.createCalls)
}

func TestSubjectServiceCreateDuplicateCode(t *testing.T) {
	repo := &mockSubjectRepo{codeIndex: map[string]int64{"MATH101": 5}}
	service := newSubjectService(repo)

	_, err := service.Create(context.Background(), validSubject())
	require.Error(t, err)
	assert.True(t, appErrors.IsConflict(err))
	assert.Equal(t, "subject_code", appErrors.FromError(err).Key)
	assert.Zero(t, repo.createCalls)
}

func TestSubjectServiceUpdateAllowsSameCode(t *testing.T) {
	created := validSubject()
	created.ID = 5
	created.Status = models.SubjectStatusActive
	created.CreatedAt = time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)
	created.UpdatedAt = created.CreatedAt

	repo := &mockSubjectRepo{
		items:     map[int64]*models.Subject{5: created},
		codeIndex: map[string]int64{"MATH101": 5},
	}
	service := newSubjectService(repo)

	changed := *created
	changed.Credits = 5
	updated, err := service.Update(context.Background(), &changed)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Credits)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(created.CreatedAt))
}

func TestSubjectServiceGetBySubjectCodeNotFound(t *testing.T) {
	service := newSubjectService(&mockSubjectRepo{})

	_, err := service.GetBySubjectCode(context.Background(), "PHYS999")
	require.Error(t, err)
	assert.True(t, appErrors.IsNotFound(err))
}

func TestSubjectServiceDeleteReferentialConflict(t *testing.T) {
	created := validSubject()
	created.ID = 5
	repo := &mockSubjectRepo{
		items:     map[int64]*models.Subject{5: created},
		deleteErr: appErrors.Conflict("subject_id", "referenced subject_id does not exist"),
	}
	service := newSubjectService(repo)

	err := service.Delete(context.Background(), 5)
	require.Error(t, err)
	assert.True(t, appErrors.IsConflict(err))
}

type mockSubjectGradeLister struct {
	grades []models.Grade
}

func (m *mockSubjectGradeLister) ListBySubject(ctx context.Context, subjectID int64) ([]models.Grade, error) {
	var out []models.Grade
	for _, g := range m.grades {
		if g.SubjectID == subjectID {
			out = append(out, g)
		}
	}
	return out, nil
}

func TestSubjectServiceGrades(t *testing.T) {
	grades := &mockSubjectGradeLister{grades: []models.Grade{
		{ID: 1, StudentID: 2, SubjectID: 5, GradeValue: 91.5},
		{ID: 2, StudentID: 3, SubjectID: 6, GradeValue: 70},
	}}
	service := NewSubjectService(&mockSubjectRepo{}, grades, nil, nil, nil, validation.New(), zap.NewNop())

	out, err := service.Grades(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, int64(2), out[0].StudentID)
}

func TestSubjectServiceDelete(t *testing.T) {
	created := validSubject()
	created.ID = 5
	repo := &mockSubjectRepo{items: map[int64]*models.Subject{5: created}}
	service := newSubjectService(repo)

	require.NoError(t, service.Delete(context.Background(), 5))
	assert.Empty(t, repo.items)
}
