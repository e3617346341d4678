package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hearthfin/hearth_finance_app/internal/apperrors"
	"github.com/hearthfin/hearth_finance_app/internal/core/domain"
	portsrepo "github.com/hearthfin/hearth_finance_app/internal/core/ports/repositories"
	"github.com/hearthfin/hearth_finance_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SyncRepository implements the transactional composites of the sync engine
// on Postgres.
type SyncRepository struct {
	BaseRepository
}

// NewSyncRepository creates a new repository for sync operations.
func NewSyncRepository(pool *pgxpool.Pool) *SyncRepository {
	return &SyncRepository{BaseRepository: NewBaseRepository(pool)}
}

var _ portsrepo.SyncRepository = (*SyncRepository)(nil)

// PullChanges reads all four collections while holding the store lock
// exclusively. Every writer holds the lock shared until commit, so once the
// lock is granted no version token at or below the computed cursor belongs
// to an uncommitted write and the four reads see one consistent store.
//
// Read committed is deliberate: a repeatable-read snapshot would be taken
// before the lock is granted and could miss writes the lock just drained.
func (r *SyncRepository) PullChanges(ctx context.Context, afterVersion int64) (*domain.ChangeSet, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, translateErr(err, "pull changes")
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if err := lockStoreExclusive(ctx, tx); err != nil {
		return nil, translateErr(err, "pull changes")
	}

	accounts, err := changedAccountRows(ctx, tx, afterVersion)
	if err != nil {
		return nil, translateErr(err, "pull changed accounts")
	}
	categories, err := changedCategoryRows(ctx, tx, afterVersion)
	if err != nil {
		return nil, translateErr(err, "pull changed categories")
	}
	rules, err := changedRuleRows(ctx, tx, afterVersion)
	if err != nil {
		return nil, translateErr(err, "pull changed rules")
	}
	transactions, err := changedTransactionRows(ctx, tx, afterVersion)
	if err != nil {
		return nil, translateErr(err, "pull changed transactions")
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, translateErr(err, "pull changes")
	}

	cs := &domain.ChangeSet{
		Accounts:     mapping.ToDomainAccountSlice(accounts),
		Categories:   mapping.ToDomainCategorySlice(categories),
		Rules:        mapping.ToDomainRuleSlice(rules),
		Transactions: mapping.ToDomainTransactionSlice(transactions),
		Cursor:       afterVersion,
	}

	// The new cursor is the highest token in the batch, never less than the
	// request cursor. Rows come back ordered by version, so the tail holds
	// each collection's maximum.
	for _, a := range cs.Accounts {
		if a.Version > cs.Cursor {
			cs.Cursor = a.Version
		}
	}
	for _, c := range cs.Categories {
		if c.Version > cs.Cursor {
			cs.Cursor = c.Version
		}
	}
	for _, ru := range cs.Rules {
		if ru.Version > cs.Cursor {
			cs.Cursor = ru.Version
		}
	}
	for _, t := range cs.Transactions {
		if t.Version > cs.Cursor {
			cs.Cursor = t.Version
		}
	}
	return cs, nil
}

// ApplyMutations applies the batch in order inside one transaction. A stale
// base version yields a conflict record and the mutation is skipped; any
// storage error aborts and rolls back the whole batch.
func (r *SyncRepository) ApplyMutations(ctx context.Context, actor string, muts []domain.DecodedMutation) (*domain.PushResult, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, translateErr(err, "apply push batch")
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if err := lockStoreShared(ctx, tx); err != nil {
		return nil, translateErr(err, "apply push batch")
	}

	result := &domain.PushResult{
		Applied:   []domain.AppliedMutation{},
		Conflicts: []domain.ConflictRecord{},
	}
	now := time.Now().UTC()

	for i, m := range muts {
		serverVersion, err := lockEntityVersion(ctx, tx, m.EntityType, m.EntityID)
		exists := err == nil
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("mutation %d: %w", i, err)
		}

		if conflict, ok := detectConflict(m, exists, serverVersion); ok {
			result.Conflicts = append(result.Conflicts, conflict)
			continue
		}

		newVersion, err := applyMutation(ctx, tx, actor, now, m)
		if err != nil {
			return nil, fmt.Errorf("mutation %d: %w", i, err)
		}
		result.Applied = append(result.Applied, domain.AppliedMutation{
			EntityType: m.EntityType,
			Op:         m.Op,
			EntityID:   m.EntityID,
			NewVersion: newVersion,
		})
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, translateErr(err, "apply push batch")
	}
	return result, nil
}

// lockEntityVersion row-locks the target entity and returns its current
// version, dispatching on the collection.
func lockEntityVersion(ctx context.Context, q Querier, entityType domain.EntityType, entityID string) (int64, error) {
	switch entityType {
	case domain.EntityAccount:
		return lockAccountVersion(ctx, q, entityID)
	case domain.EntityCategory:
		return lockCategoryVersion(ctx, q, entityID)
	case domain.EntityRule:
		return lockRuleVersion(ctx, q, entityID)
	case domain.EntityTransaction:
		return lockTransactionVersion(ctx, q, entityID)
	}
	return 0, fmt.Errorf("%w: unknown entity type %q", apperrors.ErrValidation, entityType)
}

// detectConflict decides whether the mutation is stale against the locked
// server state. The server copy always wins; the record carries both
// versions so the device can reconcile.
func detectConflict(m domain.DecodedMutation, exists bool, serverVersion int64) (domain.ConflictRecord, bool) {
	conflict := domain.ConflictRecord{
		EntityType:    m.EntityType,
		EntityID:      m.EntityID,
		ServerVersion: serverVersion,
		ClientVersion: m.BaseVersion,
		Resolution:    "unresolved",
	}
	switch m.Op {
	case domain.OpCreate:
		if exists {
			return conflict, true
		}
	case domain.OpUpdate, domain.OpDelete:
		if !exists || serverVersion != m.BaseVersion {
			return conflict, true
		}
	}
	return domain.ConflictRecord{}, false
}

// applyMutation performs the accepted mutation and returns its new version
// token. Deletes draw a token from the sequence so the applied record still
// orders against other changes.
func applyMutation(ctx context.Context, q Querier, actor string, now time.Time, m domain.DecodedMutation) (int64, error) {
	if m.Op == domain.OpDelete {
		if err := deleteEntityRow(ctx, q, m.EntityType, m.EntityID); err != nil {
			return 0, err
		}
		var version int64
		if err := q.QueryRow(ctx, `SELECT nextval('sync_version_seq')`).Scan(&version); err != nil {
			return 0, err
		}
		return version, nil
	}

	switch m.EntityType {
	case domain.EntityAccount:
		acc := *m.Account
		stampAudit(&acc.AuditFields, m.Op, actor, now)
		row := mapping.ToModelAccount(acc)
		if m.Op == domain.OpCreate {
			return insertAccountRow(ctx, q, row)
		}
		return updateAccountRow(ctx, q, row)
	case domain.EntityCategory:
		cat := *m.Category
		stampAudit(&cat.AuditFields, m.Op, actor, now)
		row := mapping.ToModelCategory(cat)
		if m.Op == domain.OpCreate {
			return insertCategoryRow(ctx, q, row)
		}
		return updateCategoryRow(ctx, q, row)
	case domain.EntityRule:
		rule := *m.Rule
		stampAudit(&rule.AuditFields, m.Op, actor, now)
		row := mapping.ToModelRule(rule)
		if m.Op == domain.OpCreate {
			return insertRuleRow(ctx, q, row)
		}
		return updateRuleRow(ctx, q, row)
	case domain.EntityTransaction:
		txn := *m.Transaction
		stampAudit(&txn.AuditFields, m.Op, actor, now)
		row := mapping.ToModelTransaction(txn)
		if m.Op == domain.OpCreate {
			return insertTransactionRow(ctx, q, row)
		}
		return updateTransactionRow(ctx, q, row)
	}
	return 0, fmt.Errorf("%w: unknown entity type %q", apperrors.ErrValidation, m.EntityType)
}

func deleteEntityRow(ctx context.Context, q Querier, entityType domain.EntityType, entityID string) error {
	switch entityType {
	case domain.EntityAccount:
		return deleteAccountRow(ctx, q, entityID)
	case domain.EntityCategory:
		// Detaches referencing transactions like a direct category delete.
		return deleteCategoryRow(ctx, q, entityID)
	case domain.EntityRule:
		return deleteRuleRow(ctx, q, entityID)
	case domain.EntityTransaction:
		return deleteTransactionRow(ctx, q, entityID)
	}
	return fmt.Errorf("%w: unknown entity type %q", apperrors.ErrValidation, entityType)
}

// stampAudit fills server-side audit fields. The device's wall clock is never
// trusted for ordering; it only survives as the entity's own timestamps when
// the server creates the row.
func stampAudit(a *domain.AuditFields, op domain.MutationOp, actor string, now time.Time) {
	if op == domain.OpCreate {
		if a.CreatedAt.IsZero() {
			a.CreatedAt = now
		}
		if a.CreatedBy == "" {
			a.CreatedBy = actor
		}
	}
	a.LastUpdatedAt = now
	a.LastUpdatedBy = actor
}
