package mapping

import (
	"github.com/hearthfin/hearth_finance_app/internal/core/domain"
	"github.com/hearthfin/hearth_finance_app/internal/models"
)

// ToModelCategory converts a domain Category to a model Category.
func ToModelCategory(d domain.Category) models.Category {
	return models.Category{
		CategoryID:    d.CategoryID,
		Name:          d.Name,
		Icon:          d.Icon,
		Color:         d.Color,
		MonthlyBudget: d.MonthlyBudget,
		AuditFields:   toModelAudit(d.AuditFields),
		Version:       d.Version,
	}
}

// ToDomainCategory converts a model Category to a domain Category.
func ToDomainCategory(m models.Category) domain.Category {
	return domain.Category{
		CategoryID:    m.CategoryID,
		Name:          m.Name,
		Icon:          m.Icon,
		Color:         m.Color,
		MonthlyBudget: m.MonthlyBudget,
		AuditFields:   toDomainAudit(m.AuditFields),
		Version:       m.Version,
	}
}

// ToDomainCategorySlice converts a slice of model Categories to domain Categories.
func ToDomainCategorySlice(ms []models.Category) []domain.Category {
	ds := make([]domain.Category, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCategory(m)
	}
	return ds
}
