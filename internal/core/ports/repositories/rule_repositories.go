package repositories

import (
	"context"

	"github.com/hearthfin/hearth_finance_app/internal/core/domain"
)

// RuleReader defines read operations for automation rule data.
type RuleReader interface {
	// FindRuleByID retrieves a specific rule by its unique identifier.
	FindRuleByID(ctx context.Context, ruleID string) (*domain.AutomationRule, error)

	// ListRules retrieves all rules, active or not.
	ListRules(ctx context.Context) ([]domain.AutomationRule, error)

	// ListActiveRules retrieves the active rules used for matching.
	ListActiveRules(ctx context.Context) ([]domain.AutomationRule, error)

	// ChangedRulesSince returns rules with a version token strictly greater
	// than afterVersion, ordered by version.
	ChangedRulesSince(ctx context.Context, afterVersion int64) ([]domain.AutomationRule, error)
}

// RuleWriter defines write operations for automation rule data.
type RuleWriter interface {
	// SaveRule persists a new rule and returns it with its assigned version.
	SaveRule(ctx context.Context, rule domain.AutomationRule) (*domain.AutomationRule, error)

	// UpdateRule updates an existing rule's details.
	UpdateRule(ctx context.Context, rule domain.AutomationRule) (*domain.AutomationRule, error)

	// DeleteRule removes a rule.
	DeleteRule(ctx context.Context, ruleID string) error
}

// RuleRepository combines all rule repository operations.
type RuleRepository interface {
	RuleReader
	RuleWriter
}
