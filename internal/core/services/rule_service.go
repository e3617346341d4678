package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hearthfin/hearth_finance_app/internal/apperrors"
	"github.com/hearthfin/hearth_finance_app/internal/core/domain"
	portsrepo "github.com/hearthfin/hearth_finance_app/internal/core/ports/repositories"
	portssvc "github.com/hearthfin/hearth_finance_app/internal/core/ports/services"
	"github.com/hearthfin/hearth_finance_app/internal/dto"
	"github.com/hearthfin/hearth_finance_app/internal/middleware"
)

// RuleService implements automation rule CRUD. The matcher re-reads rules on
// every evaluation, so changes made here take effect on the next ingest.
type RuleService struct {
	ruleRepo     portsrepo.RuleRepository
	categoryRepo portsrepo.CategoryReader
}

// NewRuleService creates a new RuleService.
func NewRuleService(ruleRepo portsrepo.RuleRepository, categoryRepo portsrepo.CategoryReader) *RuleService {
	return &RuleService{ruleRepo: ruleRepo, categoryRepo: categoryRepo}
}

var _ portssvc.RuleSvcFacade = (*RuleService)(nil)

// CreateRule creates a new automation rule referencing an existing category.
func (s *RuleService) CreateRule(ctx context.Context, actor string, req dto.CreateRuleRequest) (*domain.AutomationRule, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: rule name is required", apperrors.ErrValidation)
	}
	if strings.TrimSpace(req.Pattern) == "" {
		return nil, fmt.Errorf("%w: rule pattern is required", apperrors.ErrValidation)
	}
	if req.Priority < 1 {
		return nil, fmt.Errorf("%w: rule priority must be >= 1", apperrors.ErrValidation)
	}
	if _, err := s.categoryRepo.FindCategoryByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("rule category %s: %w", req.CategoryID, apperrors.ErrNotFound)
		}
		return nil, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	now := time.Now().UTC()
	rule := domain.AutomationRule{
		RuleID:      uuid.NewString(),
		Name:        name,
		CategoryID:  req.CategoryID,
		MatchType:   req.MatchType,
		Pattern:     req.Pattern,
		Priority:    req.Priority,
		IsActive:    isActive,
		Description: req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}

	saved, err := s.ruleRepo.SaveRule(ctx, rule)
	if err != nil {
		logger.Error("Failed to save rule", slog.String("error", err.Error()), slog.String("rule_id", rule.RuleID))
		return nil, err
	}

	logger.Info("Rule created", slog.String("rule_id", saved.RuleID), slog.String("name", saved.Name))
	return saved, nil
}

// GetRuleByID retrieves a rule.
func (s *RuleService) GetRuleByID(ctx context.Context, ruleID string) (*domain.AutomationRule, error) {
	return s.ruleRepo.FindRuleByID(ctx, ruleID)
}

// ListRules retrieves all rules.
func (s *RuleService) ListRules(ctx context.Context) ([]domain.AutomationRule, error) {
	return s.ruleRepo.ListRules(ctx)
}

// UpdateRule applies the provided fields to an existing rule.
func (s *RuleService) UpdateRule(ctx context.Context, actor string, ruleID string, req dto.UpdateRuleRequest) (*domain.AutomationRule, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	rule, err := s.ruleRepo.FindRuleByID(ctx, ruleID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: rule name is required", apperrors.ErrValidation)
		}
		rule.Name = name
	}
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindCategoryByID(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("rule category %s: %w", *req.CategoryID, apperrors.ErrNotFound)
			}
			return nil, err
		}
		rule.CategoryID = *req.CategoryID
	}
	if req.MatchType != nil {
		if !domain.KnownMatchType(*req.MatchType) {
			return nil, fmt.Errorf("%w: unknown match type %q", apperrors.ErrValidation, *req.MatchType)
		}
		rule.MatchType = *req.MatchType
	}
	if req.Pattern != nil {
		if strings.TrimSpace(*req.Pattern) == "" {
			return nil, fmt.Errorf("%w: rule pattern is required", apperrors.ErrValidation)
		}
		rule.Pattern = *req.Pattern
	}
	if req.Priority != nil {
		if *req.Priority < 1 {
			return nil, fmt.Errorf("%w: rule priority must be >= 1", apperrors.ErrValidation)
		}
		rule.Priority = *req.Priority
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}
	if req.Description != nil {
		rule.Description = *req.Description
	}
	rule.LastUpdatedAt = time.Now().UTC()
	rule.LastUpdatedBy = actor

	updated, err := s.ruleRepo.UpdateRule(ctx, *rule)
	if err != nil {
		logger.Error("Failed to update rule", slog.String("error", err.Error()), slog.String("rule_id", ruleID))
		return nil, err
	}

	logger.Info("Rule updated", slog.String("rule_id", ruleID))
	return updated, nil
}

// DeleteRule removes a rule.
func (s *RuleService) DeleteRule(ctx context.Context, actor string, ruleID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.ruleRepo.DeleteRule(ctx, ruleID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to delete rule", slog.String("error", err.Error()), slog.String("rule_id", ruleID))
		}
		return err
	}

	logger.Info("Rule deleted", slog.String("rule_id", ruleID), slog.String("actor", actor))
	return nil
}

// TestMatch runs the active rules against a sample description without
// writing anything, so users can check a rule before relying on it.
func (s *RuleService) TestMatch(ctx context.Context, description string) (string, string, bool, error) {
	categoryID, categoryName, err := resolveCategory(ctx, s.ruleRepo, s.categoryRepo, description)
	if err != nil {
		return "", "", false, err
	}
	if categoryID == nil {
		return "", categoryName, false, nil
	}
	return *categoryID, categoryName, true, nil
}
