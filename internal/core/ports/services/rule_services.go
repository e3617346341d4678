package services

import (
	"context"

	"github.com/hearthfin/hearth_finance_app/internal/core/domain"
	"github.com/hearthfin/hearth_finance_app/internal/dto"
)

// RuleSvcFacade exposes automation rule CRUD plus a test hook that runs the
// matcher against a sample description without writing anything.
type RuleSvcFacade interface {
	CreateRule(ctx context.Context, actor string, req dto.CreateRuleRequest) (*domain.AutomationRule, error)
	GetRuleByID(ctx context.Context, ruleID string) (*domain.AutomationRule, error)
	ListRules(ctx context.Context) ([]domain.AutomationRule, error)
	UpdateRule(ctx context.Context, actor string, ruleID string, req dto.UpdateRuleRequest) (*domain.AutomationRule, error)
	DeleteRule(ctx context.Context, actor string, ruleID string) error
	TestMatch(ctx context.Context, description string) (categoryID string, categoryName string, matched bool, err error)
}
