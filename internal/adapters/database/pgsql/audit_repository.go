package pgsql

import (
	"context"

	"github.com/hearthfin/hearth_finance_app/internal/core/domain"
	portsrepo "github.com/hearthfin/hearth_finance_app/internal/core/ports/repositories"
	"github.com/hearthfin/hearth_finance_app/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditRepository is the Postgres implementation of the append-only audit log.
type AuditRepository struct {
	BaseRepository
}

// NewAuditRepository creates a new repository for audit log entries.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{BaseRepository: NewBaseRepository(pool)}
}

var _ portsrepo.AuditRepository = (*AuditRepository)(nil)

// SaveEntry appends one audit entry.
func (r *AuditRepository) SaveEntry(ctx context.Context, entry domain.AuditEntry) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO audit_log (entry_id, actor, verb, entity_type, entity_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entry.EntryID, entry.Actor, entry.Verb, string(entry.EntityType), entry.EntityID, entry.Details, entry.CreatedAt,
	)
	if err != nil {
		return translateErr(err, "save audit entry "+entry.EntryID)
	}
	return nil
}

// ListEntries retrieves audit entries, newest first.
func (r *AuditRepository) ListEntries(ctx context.Context, limit int, offset int) ([]domain.AuditEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT entry_id, actor, verb, entity_type, entity_id, details, created_at
		FROM audit_log
		ORDER BY created_at DESC, entry_id
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, translateErr(err, "list audit entries")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.AuditEntry])
	if err != nil {
		return nil, translateErr(err, "list audit entries")
	}
	out := make([]domain.AuditEntry, len(ms))
	for i, m := range ms {
		out[i] = domain.AuditEntry{
			EntryID:    m.EntryID,
			Actor:      m.Actor,
			Verb:       m.Verb,
			EntityType: domain.EntityType(m.EntityType),
			EntityID:   m.EntityID,
			Details:    m.Details,
			CreatedAt:  m.CreatedAt,
		}
	}
	return out, nil
}
