package service

import (
	"context"

	"github.com/alexanderramin/punchlog/internal/domain"
	"github.com/alexanderramin/punchlog/internal/repository"
)

type auditService struct {
	audit repository.AuditRepo
}

func NewAuditService(audit repository.AuditRepo) AuditService {
	return &auditService{audit: audit}
}

func (s *auditService) Entries(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	return s.audit.List(ctx, limit)
}
