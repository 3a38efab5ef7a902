package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/schoolmgmt/core-api/internal/models"
	appErrors "github.com/schoolmgmt/core-api/pkg/errors"
)

type auditReader interface {
	ListByResource(ctx context.Context, resource string, resourceID int64) ([]models.AuditLog, error)
}

// AuditService exposes the audit trail written by the entity services.
type AuditService struct {
	repo   auditReader
	logger *zap.Logger
}

// NewAuditService constructs an AuditService.
func NewAuditService(repo auditReader, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{repo: repo, logger: logger}
}

// Trail returns the mutation history of one record, newest first.
func (s *AuditService) Trail(ctx context.Context, resource string, resourceID int64) ([]models.AuditLog, error) {
	logs, err := s.repo.ListByResource(ctx, resource, resourceID)
	if err != nil {
		return nil, appErrors.Store(err, "failed to list audit trail")
	}
	return logs, nil
}
