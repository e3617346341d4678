package pgsql

import (
	"context"

	"github.com/hearthfin/hearth_finance_app/internal/core/domain"
	portsrepo "github.com/hearthfin/hearth_finance_app/internal/core/ports/repositories"
	"github.com/hearthfin/hearth_finance_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SnapshotRepository implements whole-store export and replace on Postgres.
type SnapshotRepository struct {
	BaseRepository
}

// NewSnapshotRepository creates a new repository for snapshot operations.
func NewSnapshotRepository(pool *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{BaseRepository: NewBaseRepository(pool)}
}

var _ portsrepo.SnapshotRepository = (*SnapshotRepository)(nil)

// ExportAll reads every collection while holding the store lock exclusively,
// so the snapshot never contains half of a concurrent push. A version floor
// of zero selects every row.
func (r *SnapshotRepository) ExportAll(ctx context.Context) (*domain.Snapshot, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, translateErr(err, "export snapshot")
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if err := lockStoreExclusive(ctx, tx); err != nil {
		return nil, translateErr(err, "export snapshot")
	}

	accounts, err := changedAccountRows(ctx, tx, 0)
	if err != nil {
		return nil, translateErr(err, "export accounts")
	}
	categories, err := changedCategoryRows(ctx, tx, 0)
	if err != nil {
		return nil, translateErr(err, "export categories")
	}
	rules, err := changedRuleRows(ctx, tx, 0)
	if err != nil {
		return nil, translateErr(err, "export rules")
	}
	transactions, err := changedTransactionRows(ctx, tx, 0)
	if err != nil {
		return nil, translateErr(err, "export transactions")
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, translateErr(err, "export snapshot")
	}

	return &domain.Snapshot{
		Accounts:     mapping.ToDomainAccountSlice(accounts),
		Categories:   mapping.ToDomainCategorySlice(categories),
		Rules:        mapping.ToDomainRuleSlice(rules),
		Transactions: mapping.ToDomainTransactionSlice(transactions),
	}, nil
}

// ImportReplace swaps the entire store for the snapshot's contents in one
// transaction, keeping the snapshot's IDs and version tokens, then advances
// the version sequence past the highest imported token so future writes sort
// after everything imported.
func (r *SnapshotRepository) ImportReplace(ctx context.Context, snap domain.Snapshot) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return translateErr(err, "import snapshot")
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	// Exclusive: waits out in-flight writes and keeps new pushes out until
	// the swap commits.
	if err := lockStoreExclusive(ctx, tx); err != nil {
		return translateErr(err, "import snapshot")
	}

	// Children first, then parents.
	for _, table := range []string{"transactions", "automation_rules", "categories", "accounts"} {
		if _, err := tx.Exec(ctx, `DELETE FROM `+table); err != nil {
			return translateErr(err, "clear store for import")
		}
	}

	for _, a := range snap.Accounts {
		m := mapping.ToModelAccount(a)
		_, err := tx.Exec(ctx, `
			INSERT INTO accounts (account_id, name, currency_code, created_at, created_by, last_updated_at, last_updated_by, version)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			m.AccountID, m.Name, m.CurrencyCode,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy, m.Version,
		)
		if err != nil {
			return translateErr(err, "import account "+m.AccountID)
		}
	}
	for _, c := range snap.Categories {
		m := mapping.ToModelCategory(c)
		_, err := tx.Exec(ctx, `
			INSERT INTO categories (category_id, name, icon, color, monthly_budget, created_at, created_by, last_updated_at, last_updated_by, version)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			m.CategoryID, m.Name, m.Icon, m.Color, m.MonthlyBudget,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy, m.Version,
		)
		if err != nil {
			return translateErr(err, "import category "+m.CategoryID)
		}
	}
	for _, ru := range snap.Rules {
		m := mapping.ToModelRule(ru)
		_, err := tx.Exec(ctx, `
			INSERT INTO automation_rules (rule_id, name, category_id, match_type, pattern, priority, is_active, description, created_at, created_by, last_updated_at, last_updated_by, version)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			m.RuleID, m.Name, m.CategoryID, m.MatchType, m.Pattern, m.Priority, m.IsActive, m.Description,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy, m.Version,
		)
		if err != nil {
			return translateErr(err, "import rule "+m.RuleID)
		}
	}
	for _, t := range snap.Transactions {
		m := mapping.ToModelTransaction(t)
		_, err := tx.Exec(ctx, `
			INSERT INTO transactions (transaction_id, date, description, category_id, category_name, amount, type, account_id, status, notes, transfer_id, created_at, created_by, last_updated_at, last_updated_by, version)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
			m.TransactionID, m.Date, m.Description, m.CategoryID, m.CategoryName,
			m.Amount, m.Type, m.AccountID, m.Status, m.Notes, m.TransferID,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy, m.Version,
		)
		if err != nil {
			return translateErr(err, "import transaction "+m.TransactionID)
		}
	}

	if _, err := tx.Exec(ctx, `SELECT setval('sync_version_seq', GREATEST($1::bigint, 1))`, snap.MaxVersion()); err != nil {
		return translateErr(err, "advance version sequence")
	}

	if err := r.Commit(ctx, tx); err != nil {
		return translateErr(err, "import snapshot")
	}
	return nil
}
