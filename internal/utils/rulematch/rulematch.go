// Package rulematch evaluates automation rules against transaction
// descriptions. Evaluation is a pure function: it never mutates its inputs
// and a malformed rule can never produce an error, only a non-match.
package rulematch

import (
	"regexp"
	"sort"
	"strings"

	"github.com/hearthfin/hearth_finance_app/internal/core/domain"
)

// Match is the winning category assignment for a description.
type Match struct {
	RuleID       string
	CategoryID   string
	CategoryName string
}

// Evaluate runs the active rules against description in deterministic
// (priority, name) order and returns the first rule-level match. The second
// return value is false when no rule matches or the description is blank.
//
// If the winning rule references a category that no longer exists, the
// CategoryID is returned as-is and CategoryName falls back to
// domain.UncategorizedName.
func Evaluate(description string, rules []domain.AutomationRule, categories map[string]domain.Category) (Match, bool) {
	if strings.TrimSpace(description) == "" {
		return Match{}, false
	}

	ordered := orderRules(rules)
	lowered := strings.ToLower(description)

	for _, rule := range ordered {
		if ruleMatches(rule, description, lowered) {
			m := Match{RuleID: rule.RuleID, CategoryID: rule.CategoryID}
			if cat, ok := categories[rule.CategoryID]; ok {
				m.CategoryName = cat.Name
			} else {
				m.CategoryName = domain.UncategorizedName
			}
			return m, true
		}
	}
	return Match{}, false
}

// orderRules filters to active rules and sorts them ascending by priority,
// breaking ties by case-sensitive name. The input slice is left untouched so
// callers can hold rules in any order.
func orderRules(rules []domain.AutomationRule) []domain.AutomationRule {
	ordered := make([]domain.AutomationRule, 0, len(rules))
	for _, r := range rules {
		if r.IsActive {
			ordered = append(ordered, r)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Priority != ordered[j].Priority {
			return ordered[i].Priority < ordered[j].Priority
		}
		return ordered[i].Name < ordered[j].Name
	})
	return ordered
}

// ruleMatches reports whether any of the rule's sub-patterns matches the
// description. String predicates compare case-insensitively against the
// pre-lowered description; regex sub-patterns compile case-insensitively
// against the original description, and a pattern that fails to compile is
// treated as non-matching.
func ruleMatches(rule domain.AutomationRule, description, lowered string) bool {
	for _, pattern := range rule.SubPatterns() {
		switch rule.MatchType {
		case domain.MatchContains:
			if strings.Contains(lowered, strings.ToLower(pattern)) {
				return true
			}
		case domain.MatchStartsWith:
			if strings.HasPrefix(lowered, strings.ToLower(pattern)) {
				return true
			}
		case domain.MatchEndsWith:
			if strings.HasSuffix(lowered, strings.ToLower(pattern)) {
				return true
			}
		case domain.MatchExact:
			if lowered == strings.ToLower(pattern) {
				return true
			}
		case domain.MatchRegex:
			re, err := regexp.Compile("(?i)" + pattern)
			if err != nil {
				continue
			}
			if re.MatchString(description) {
				return true
			}
		}
	}
	return false
}
