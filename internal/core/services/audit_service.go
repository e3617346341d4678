package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hearthfin/hearth_finance_app/internal/core/domain"
	portsrepo "github.com/hearthfin/hearth_finance_app/internal/core/ports/repositories"
	portssvc "github.com/hearthfin/hearth_finance_app/internal/core/ports/services"
	"github.com/hearthfin/hearth_finance_app/internal/middleware"
)

// AuditService appends entries to the audit log. Failures are logged and
// swallowed so auditing never breaks the operation being audited.
type AuditService struct {
	auditRepo portsrepo.AuditRepository
}

// NewAuditService creates a new AuditService.
func NewAuditService(repo portsrepo.AuditRepository) *AuditService {
	return &AuditService{auditRepo: repo}
}

var _ portssvc.AuditSvc = (*AuditService)(nil)

// RecordAction appends one audit entry.
func (s *AuditService) RecordAction(ctx context.Context, actor string, verb string, entityType domain.EntityType, entityID string, details string) {
	entry := domain.AuditEntry{
		EntryID:    uuid.NewString(),
		Actor:      actor,
		Verb:       verb,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.auditRepo.SaveEntry(ctx, entry); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to record audit entry",
			slog.String("error", err.Error()),
			slog.String("verb", verb),
			slog.String("actor", actor),
		)
	}
}

// ListEntries returns audit entries, newest first.
func (s *AuditService) ListEntries(ctx context.Context, limit int, offset int) ([]domain.AuditEntry, error) {
	return s.auditRepo.ListEntries(ctx, limit, offset)
}
