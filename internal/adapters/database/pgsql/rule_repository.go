package pgsql

import (
	"context"
	"fmt"

	"github.com/hearthfin/hearth_finance_app/internal/core/domain"
	portsrepo "github.com/hearthfin/hearth_finance_app/internal/core/ports/repositories"
	"github.com/hearthfin/hearth_finance_app/internal/models"
	"github.com/hearthfin/hearth_finance_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const ruleColumns = "rule_id, name, category_id, match_type, pattern, priority, is_active, description, created_at, created_by, last_updated_at, last_updated_by, version"

// RuleRepository is the Postgres implementation of automation rule persistence.
type RuleRepository struct {
	BaseRepository
}

// NewRuleRepository creates a new repository for automation rule data.
func NewRuleRepository(pool *pgxpool.Pool) *RuleRepository {
	return &RuleRepository{BaseRepository: NewBaseRepository(pool)}
}

var _ portsrepo.RuleRepository = (*RuleRepository)(nil)

func insertRuleRow(ctx context.Context, q Querier, m models.AutomationRule) (int64, error) {
	var version int64
	err := q.QueryRow(ctx, `
		INSERT INTO automation_rules (rule_id, name, category_id, match_type, pattern, priority, is_active, description, created_at, created_by, last_updated_at, last_updated_by, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, nextval('sync_version_seq'))
		RETURNING version`,
		m.RuleID, m.Name, m.CategoryID, m.MatchType, m.Pattern, m.Priority, m.IsActive, m.Description,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	).Scan(&version)
	return version, err
}

func updateRuleRow(ctx context.Context, q Querier, m models.AutomationRule) (int64, error) {
	var version int64
	err := q.QueryRow(ctx, `
		UPDATE automation_rules
		SET name = $2, category_id = $3, match_type = $4, pattern = $5, priority = $6, is_active = $7, description = $8, last_updated_at = $9, last_updated_by = $10, version = nextval('sync_version_seq')
		WHERE rule_id = $1
		RETURNING version`,
		m.RuleID, m.Name, m.CategoryID, m.MatchType, m.Pattern, m.Priority, m.IsActive, m.Description,
		m.LastUpdatedAt, m.LastUpdatedBy,
	).Scan(&version)
	return version, err
}

func deleteRuleRow(ctx context.Context, q Querier, ruleID string) error {
	tag, err := q.Exec(ctx, `DELETE FROM automation_rules WHERE rule_id = $1`, ruleID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// SaveRule inserts a new rule.
func (r *RuleRepository) SaveRule(ctx context.Context, rule domain.AutomationRule) (*domain.AutomationRule, error) {
	m := mapping.ToModelRule(rule)
	var version int64
	err := r.withWriteTx(ctx, func(tx pgx.Tx) error {
		var err error
		version, err = insertRuleRow(ctx, tx, m)
		return err
	})
	if err != nil {
		return nil, translateErr(err, fmt.Sprintf("save rule %s", rule.RuleID))
	}
	rule.Version = version
	return &rule, nil
}

// UpdateRule updates an existing rule.
func (r *RuleRepository) UpdateRule(ctx context.Context, rule domain.AutomationRule) (*domain.AutomationRule, error) {
	m := mapping.ToModelRule(rule)
	var version int64
	err := r.withWriteTx(ctx, func(tx pgx.Tx) error {
		var err error
		version, err = updateRuleRow(ctx, tx, m)
		return err
	})
	if err != nil {
		return nil, translateErr(err, fmt.Sprintf("update rule %s", rule.RuleID))
	}
	rule.Version = version
	return &rule, nil
}

// DeleteRule removes a rule.
func (r *RuleRepository) DeleteRule(ctx context.Context, ruleID string) error {
	err := r.withWriteTx(ctx, func(tx pgx.Tx) error {
		return deleteRuleRow(ctx, tx, ruleID)
	})
	if err != nil {
		return translateErr(err, fmt.Sprintf("delete rule %s", ruleID))
	}
	return nil
}

// FindRuleByID retrieves a rule by its ID.
func (r *RuleRepository) FindRuleByID(ctx context.Context, ruleID string) (*domain.AutomationRule, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+ruleColumns+` FROM automation_rules WHERE rule_id = $1`, ruleID)
	if err != nil {
		return nil, translateErr(err, fmt.Sprintf("find rule %s", ruleID))
	}
	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.AutomationRule])
	if err != nil {
		return nil, translateErr(err, fmt.Sprintf("find rule %s", ruleID))
	}
	d := mapping.ToDomainRule(m)
	return &d, nil
}

// ListRules retrieves all rules ordered by priority then name.
func (r *RuleRepository) ListRules(ctx context.Context) ([]domain.AutomationRule, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+ruleColumns+` FROM automation_rules ORDER BY priority, name`)
	if err != nil {
		return nil, translateErr(err, "list rules")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.AutomationRule])
	if err != nil {
		return nil, translateErr(err, "list rules")
	}
	return mapping.ToDomainRuleSlice(ms), nil
}

// ListActiveRules retrieves the active rules used for matching.
func (r *RuleRepository) ListActiveRules(ctx context.Context) ([]domain.AutomationRule, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+ruleColumns+` FROM automation_rules WHERE is_active ORDER BY priority, name`)
	if err != nil {
		return nil, translateErr(err, "list active rules")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.AutomationRule])
	if err != nil {
		return nil, translateErr(err, "list active rules")
	}
	return mapping.ToDomainRuleSlice(ms), nil
}

// ChangedRulesSince returns rules whose version token is strictly greater
// than afterVersion.
func (r *RuleRepository) ChangedRulesSince(ctx context.Context, afterVersion int64) ([]domain.AutomationRule, error) {
	ms, err := changedRuleRows(ctx, r.pool, afterVersion)
	if err != nil {
		return nil, translateErr(err, "list changed rules")
	}
	return mapping.ToDomainRuleSlice(ms), nil
}

func changedRuleRows(ctx context.Context, q Querier, afterVersion int64) ([]models.AutomationRule, error) {
	rows, err := q.Query(ctx, `SELECT `+ruleColumns+` FROM automation_rules WHERE version > $1 ORDER BY version`, afterVersion)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[models.AutomationRule])
}

func lockRuleVersion(ctx context.Context, q Querier, ruleID string) (int64, error) {
	var version int64
	err := q.QueryRow(ctx, `SELECT version FROM automation_rules WHERE rule_id = $1 FOR UPDATE`, ruleID).Scan(&version)
	if err != nil {
		return 0, translateErr(err, fmt.Sprintf("lock rule %s", ruleID))
	}
	return version, nil
}
