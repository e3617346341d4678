package mapping

import (
	"github.com/hearthfin/hearth_finance_app/internal/core/domain"
	"github.com/hearthfin/hearth_finance_app/internal/models"
)

// ToModelRule converts a domain AutomationRule to a model AutomationRule.
func ToModelRule(d domain.AutomationRule) models.AutomationRule {
	return models.AutomationRule{
		RuleID:      d.RuleID,
		Name:        d.Name,
		CategoryID:  d.CategoryID,
		MatchType:   string(d.MatchType),
		Pattern:     d.Pattern,
		Priority:    d.Priority,
		IsActive:    d.IsActive,
		Description: d.Description,
		AuditFields: toModelAudit(d.AuditFields),
		Version:     d.Version,
	}
}

// ToDomainRule converts a model AutomationRule to a domain AutomationRule.
func ToDomainRule(m models.AutomationRule) domain.AutomationRule {
	return domain.AutomationRule{
		RuleID:      m.RuleID,
		Name:        m.Name,
		CategoryID:  m.CategoryID,
		MatchType:   domain.MatchType(m.MatchType),
		Pattern:     m.Pattern,
		Priority:    m.Priority,
		IsActive:    m.IsActive,
		Description: m.Description,
		AuditFields: toDomainAudit(m.AuditFields),
		Version:     m.Version,
	}
}

// ToDomainRuleSlice converts a slice of model AutomationRules to domain rules.
func ToDomainRuleSlice(ms []models.AutomationRule) []domain.AutomationRule {
	ds := make([]domain.AutomationRule, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainRule(m)
	}
	return ds
}
