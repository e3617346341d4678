package services

import (
	"context"

	"github.com/hearthfin/hearth_finance_app/internal/core/domain"
)

// AuditSvc records who did what. Recording is best-effort: a failed write is
// logged and never fails the host operation.
type AuditSvc interface {
	RecordAction(ctx context.Context, actor string, verb string, entityType domain.EntityType, entityID string, details string)

	// ListEntries retrieves audit entries, newest first.
	ListEntries(ctx context.Context, limit int, offset int) ([]domain.AuditEntry, error)
}
