package models

// AutomationRule is the database representation of a categorization rule.
type AutomationRule struct {
	RuleID      string `db:"rule_id"`
	Name        string `db:"name"`
	CategoryID  string `db:"category_id"`
	MatchType   string `db:"match_type"`
	Pattern     string `db:"pattern"`
	Priority    int    `db:"priority"`
	IsActive    bool   `db:"is_active"`
	Description string `db:"description"`
	AuditFields
	Version int64 `db:"version"`
}
