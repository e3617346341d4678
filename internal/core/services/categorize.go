package services

import (
	"context"

	"github.com/hearthfin/hearth_finance_app/internal/core/domain"
	portsrepo "github.com/hearthfin/hearth_finance_app/internal/core/ports/repositories"
	"github.com/hearthfin/hearth_finance_app/internal/utils/rulematch"
)

// categoryResolver holds one load of the active rules and their categories,
// so callers matching many descriptions query the store once instead of once
// per row. Build it fresh per request; it is never cached across requests,
// so rule edits take effect immediately.
type categoryResolver struct {
	rules []domain.AutomationRule
	byID  map[string]domain.Category
}

// newCategoryResolver loads the active rules, and their categories only when
// there is at least one rule to match.
func newCategoryResolver(ctx context.Context, ruleRepo portsrepo.RuleReader, categoryRepo portsrepo.CategoryReader) (*categoryResolver, error) {
	rules, err := ruleRepo.ListActiveRules(ctx)
	if err != nil {
		return nil, err
	}
	r := &categoryResolver{rules: rules}
	if len(rules) == 0 {
		return r, nil
	}

	categories, err := categoryRepo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	r.byID = make(map[string]domain.Category, len(categories))
	for _, c := range categories {
		r.byID[c.CategoryID] = c
	}
	return r, nil
}

// resolve runs the loaded rules against a description and returns the
// winning category, or (nil, "Uncategorized") when nothing matches.
func (r *categoryResolver) resolve(description string) (*string, string) {
	if len(r.rules) == 0 {
		return nil, domain.UncategorizedName
	}
	match, ok := rulematch.Evaluate(description, r.rules, r.byID)
	if !ok {
		return nil, domain.UncategorizedName
	}
	categoryID := match.CategoryID
	return &categoryID, match.CategoryName
}

// resolveCategory is the single-description form used by callers that only
// match once per request.
func resolveCategory(ctx context.Context, ruleRepo portsrepo.RuleReader, categoryRepo portsrepo.CategoryReader, description string) (*string, string, error) {
	resolver, err := newCategoryResolver(ctx, ruleRepo, categoryRepo)
	if err != nil {
		return nil, "", err
	}
	categoryID, categoryName := resolver.resolve(description)
	return categoryID, categoryName, nil
}
