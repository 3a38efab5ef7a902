package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schoolmgmt/core-api/internal/models"
)

type mockAuditReader struct {
	logs []models.AuditLog
}

func (m *mockAuditReader) ListByResource(ctx context.Context, resource string, resourceID int64) ([]models.AuditLog, error) {
	var out []models.AuditLog
	for _, l := range m.logs {
		if l.Resource == resource && l.ResourceID != nil && *l.ResourceID == resourceID {
			out = append(out, l)
		}
	}
	return out, nil
}

func TestAuditServiceTrail(t *testing.T) {
	id := int64(7)
	other := int64(8)
	reader := &mockAuditReader{logs: []models.AuditLog{
		{ID: "a", Action: models.AuditActionTeacherCreate, Resource: "teacher", ResourceID: &id, CreatedAt: time.Now().UTC()},
		{ID: "b", Action: models.AuditActionTeacherUpdate, Resource: "teacher", ResourceID: &id, CreatedAt: time.Now().UTC()},
		{ID: "c", Action: models.AuditActionStudentCreate, Resource: "student", ResourceID: &other, CreatedAt: time.Now().UTC()},
	}}
	service := NewAuditService(reader, zap.NewNop())

	trail, err := service.Trail(context.Background(), "teacher", 7)
	require.NoError(t, err)
	require.Len(t, trail, 2)
	assert.Equal(t, models.AuditActionTeacherCreate, trail[0].Action)
}
