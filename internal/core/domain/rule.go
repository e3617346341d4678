package domain

import "strings"

// MatchType selects the string predicate an automation rule applies to a
// transaction description.
type MatchType string

const (
	MatchContains   MatchType = "contains"
	MatchStartsWith MatchType = "starts_with"
	MatchEndsWith   MatchType = "ends_with"
	MatchExact      MatchType = "exact"
	MatchRegex      MatchType = "regex"
)

// KnownMatchType reports whether t is one of the supported match types.
func KnownMatchType(t MatchType) bool {
	switch t {
	case MatchContains, MatchStartsWith, MatchEndsWith, MatchExact, MatchRegex:
		return true
	}
	return false
}

// AutomationRule assigns a category to transactions whose description matches
// its pattern. Rules are evaluated ascending by (Priority, Name); the first
// match wins.
type AutomationRule struct {
	RuleID      string    `json:"ruleID"` // Primary Key (UUID)
	Name        string    `json:"name"`
	CategoryID  string    `json:"categoryID"` // FK -> Category
	MatchType   MatchType `json:"matchType"`
	Pattern     string    `json:"pattern"`  // Pipe-delimited sub-patterns
	Priority    int       `json:"priority"` // >= 1, lower evaluates first
	IsActive    bool      `json:"isActive"`
	Description string    `json:"description"`
	AuditFields
	Version int64 `json:"version"`
}

// SubPatterns splits the rule's pattern on '|', trimming whitespace and
// dropping empty segments.
func (r AutomationRule) SubPatterns() []string {
	parts := strings.Split(r.Pattern, "|")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
