package repositories

import (
	"context"

	"github.com/hearthfin/hearth_finance_app/internal/core/domain"
)

// AuditRepository persists append-only audit log entries.
type AuditRepository interface {
	// SaveEntry appends an audit entry.
	SaveEntry(ctx context.Context, entry domain.AuditEntry) error

	// ListEntries retrieves audit entries, newest first.
	ListEntries(ctx context.Context, limit int, offset int) ([]domain.AuditEntry, error)
}
