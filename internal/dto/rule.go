package dto

import (
	"time"

	"github.com/hearthfin/hearth_finance_app/internal/core/domain"
)

// CreateRuleRequest defines the data needed to create an automation rule.
type CreateRuleRequest struct {
	Name        string           `json:"name" binding:"required,notblank"`
	CategoryID  string           `json:"categoryID" binding:"required,uuid"`
	MatchType   domain.MatchType `json:"matchType" binding:"required,oneof=contains starts_with ends_with exact regex"`
	Pattern     string           `json:"pattern" binding:"required"`
	Priority    int              `json:"priority" binding:"required,min=1"`
	IsActive    *bool            `json:"isActive"` // Defaults to true when omitted
	Description string           `json:"description"`
}

// UpdateRuleRequest defines the data allowed for updating a rule.
type UpdateRuleRequest struct {
	Name        *string           `json:"name"`
	CategoryID  *string           `json:"categoryID"`
	MatchType   *domain.MatchType `json:"matchType"`
	Pattern     *string           `json:"pattern"`
	Priority    *int              `json:"priority"`
	IsActive    *bool             `json:"isActive"`
	Description *string           `json:"description"`
}

// RuleResponse defines the data returned for an automation rule.
type RuleResponse struct {
	RuleID        string           `json:"ruleID"`
	Name          string           `json:"name"`
	CategoryID    string           `json:"categoryID"`
	MatchType     domain.MatchType `json:"matchType"`
	Pattern       string           `json:"pattern"`
	Priority      int              `json:"priority"`
	IsActive      bool             `json:"isActive"`
	Description   string           `json:"description"`
	CreatedAt     time.Time        `json:"createdAt"`
	LastUpdatedAt time.Time        `json:"lastUpdatedAt"`
	Version       int64            `json:"version"`
}

// ToRuleResponse converts a domain.AutomationRule to a RuleResponse DTO.
func ToRuleResponse(rule *domain.AutomationRule) RuleResponse {
	return RuleResponse{
		RuleID:        rule.RuleID,
		Name:          rule.Name,
		CategoryID:    rule.CategoryID,
		MatchType:     rule.MatchType,
		Pattern:       rule.Pattern,
		Priority:      rule.Priority,
		IsActive:      rule.IsActive,
		Description:   rule.Description,
		CreatedAt:     rule.CreatedAt,
		LastUpdatedAt: rule.LastUpdatedAt,
		Version:       rule.Version,
	}
}

// TestRuleMatchRequest carries a sample description to run through the
// active rules without writing anything.
type TestRuleMatchRequest struct {
	Description string `json:"description" binding:"required"`
}

// TestRuleMatchResponse reports the outcome of a test match. When no rule
// matches, Matched is false and CategoryName carries the fallback label.
type TestRuleMatchResponse struct {
	Matched      bool   `json:"matched"`
	CategoryID   string `json:"categoryID,omitempty"`
	CategoryName string `json:"categoryName"`
}

// ToListRuleResponse converts a slice of domain.AutomationRule to response DTOs.
func ToListRuleResponse(rules []domain.AutomationRule) []RuleResponse {
	res := make([]RuleResponse, len(rules))
	for i := range rules {
		res[i] = ToRuleResponse(&rules[i])
	}
	return res
}
