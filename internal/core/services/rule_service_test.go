package services_test

import (
	"context"
	"testing"

	"github.com/hearthfin/hearth_finance_app/internal/apperrors"
	"github.com/hearthfin/hearth_finance_app/internal/core/domain"
	"github.com/hearthfin/hearth_finance_app/internal/core/services"
	"github.com/hearthfin/hearth_finance_app/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type RuleServiceTestSuite struct {
	suite.Suite
	mockRuleRepo     *MockRuleRepository
	mockCategoryRepo *MockCategoryRepository
	service          *services.RuleService
	ctx              context.Context
}

func (suite *RuleServiceTestSuite) SetupTest() {
	suite.mockRuleRepo = new(MockRuleRepository)
	suite.mockCategoryRepo = new(MockCategoryRepository)
	suite.service = services.NewRuleService(suite.mockRuleRepo, suite.mockCategoryRepo)
	suite.ctx = context.Background()
}

func TestRuleServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RuleServiceTestSuite))
}

func (suite *RuleServiceTestSuite) TestCreateRule_DefaultsToActive() {
	category := &domain.Category{CategoryID: "cat-1", Name: "Groceries"}
	suite.mockCategoryRepo.On("FindCategoryByID", suite.ctx, "cat-1").Return(category, nil).Once()
	suite.mockRuleRepo.On("SaveRule", suite.ctx, mock.MatchedBy(func(rule domain.AutomationRule) bool {
		return rule.Name == "Groceries" &&
			rule.IsActive &&
			rule.CategoryID == "cat-1" &&
			rule.Priority == 10 &&
			rule.CreatedBy == "device-1"
	})).Return(&domain.AutomationRule{RuleID: "r-1", Name: "Groceries", Version: 1}, nil).Once()

	rule, err := suite.service.CreateRule(suite.ctx, "device-1", dto.CreateRuleRequest{
		Name:       "Groceries",
		CategoryID: "cat-1",
		MatchType:  domain.MatchContains,
		Pattern:    "WOOLWORTHS|COLES",
		Priority:   10,
	})

	suite.Require().NoError(err)
	suite.Equal("r-1", rule.RuleID)
	suite.mockRuleRepo.AssertExpectations(suite.T())
}

func (suite *RuleServiceTestSuite) TestCreateRule_ValidationFailures() {
	tests := []struct {
		name string
		req  dto.CreateRuleRequest
	}{
		{"blank name", dto.CreateRuleRequest{Name: " ", CategoryID: "cat-1", MatchType: domain.MatchContains, Pattern: "x", Priority: 1}},
		{"blank pattern", dto.CreateRuleRequest{Name: "R", CategoryID: "cat-1", MatchType: domain.MatchContains, Pattern: "  ", Priority: 1}},
		{"priority below one", dto.CreateRuleRequest{Name: "R", CategoryID: "cat-1", MatchType: domain.MatchContains, Pattern: "x", Priority: 0}},
	}

	for _, tt := range tests {
		_, err := suite.service.CreateRule(suite.ctx, "device-1", tt.req)
		suite.ErrorIs(err, apperrors.ErrValidation, tt.name)
	}
	suite.mockRuleRepo.AssertNotCalled(suite.T(), "SaveRule", mock.Anything, mock.Anything)
}

func (suite *RuleServiceTestSuite) TestCreateRule_CategoryNotFound() {
	suite.mockCategoryRepo.On("FindCategoryByID", suite.ctx, "cat-missing").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateRule(suite.ctx, "device-1", dto.CreateRuleRequest{
		Name:       "R",
		CategoryID: "cat-missing",
		MatchType:  domain.MatchContains,
		Pattern:    "x",
		Priority:   1,
	})

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRuleRepo.AssertNotCalled(suite.T(), "SaveRule", mock.Anything, mock.Anything)
}

func (suite *RuleServiceTestSuite) TestUpdateRule_UnknownMatchType() {
	current := &domain.AutomationRule{RuleID: "r-1", Name: "R", MatchType: domain.MatchContains, Pattern: "x", Priority: 1}
	badType := domain.MatchType("fuzzy")

	suite.mockRuleRepo.On("FindRuleByID", suite.ctx, "r-1").Return(current, nil).Once()

	_, err := suite.service.UpdateRule(suite.ctx, "device-1", "r-1", dto.UpdateRuleRequest{MatchType: &badType})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRuleRepo.AssertNotCalled(suite.T(), "UpdateRule", mock.Anything, mock.Anything)
}

func (suite *RuleServiceTestSuite) TestUpdateRule_ReassignsCategory() {
	current := &domain.AutomationRule{RuleID: "r-1", Name: "R", CategoryID: "cat-1", MatchType: domain.MatchContains, Pattern: "x", Priority: 1, IsActive: true}
	newCategory := "cat-2"
	inactive := false

	suite.mockRuleRepo.On("FindRuleByID", suite.ctx, "r-1").Return(current, nil).Once()
	suite.mockCategoryRepo.On("FindCategoryByID", suite.ctx, "cat-2").Return(&domain.Category{CategoryID: "cat-2", Name: "Dining"}, nil).Once()
	suite.mockRuleRepo.On("UpdateRule", suite.ctx, mock.MatchedBy(func(rule domain.AutomationRule) bool {
		return rule.CategoryID == "cat-2" && !rule.IsActive && rule.LastUpdatedBy == "device-1"
	})).Return(&domain.AutomationRule{RuleID: "r-1", CategoryID: "cat-2", Version: 4}, nil).Once()

	updated, err := suite.service.UpdateRule(suite.ctx, "device-1", "r-1", dto.UpdateRuleRequest{
		CategoryID: &newCategory,
		IsActive:   &inactive,
	})

	suite.Require().NoError(err)
	suite.Equal("cat-2", updated.CategoryID)
	suite.mockRuleRepo.AssertExpectations(suite.T())
	suite.mockCategoryRepo.AssertExpectations(suite.T())
}

func (suite *RuleServiceTestSuite) TestTestMatch_Match() {
	rules := []domain.AutomationRule{
		{RuleID: "r-1", Name: "Groceries", CategoryID: "cat-1", MatchType: domain.MatchContains, Pattern: "WOOLWORTHS", Priority: 1, IsActive: true},
	}
	categories := []domain.Category{{CategoryID: "cat-1", Name: "Groceries"}}

	suite.mockRuleRepo.On("ListActiveRules", suite.ctx).Return(rules, nil).Once()
	suite.mockCategoryRepo.On("ListCategories", suite.ctx).Return(categories, nil).Once()

	categoryID, categoryName, matched, err := suite.service.TestMatch(suite.ctx, "WOOLWORTHS 1234")

	suite.Require().NoError(err)
	suite.True(matched)
	suite.Equal("cat-1", categoryID)
	suite.Equal("Groceries", categoryName)
}

func (suite *RuleServiceTestSuite) TestTestMatch_NoMatch() {
	suite.mockRuleRepo.On("ListActiveRules", suite.ctx).Return([]domain.AutomationRule{}, nil).Once()

	categoryID, categoryName, matched, err := suite.service.TestMatch(suite.ctx, "UNKNOWN MERCHANT")

	suite.Require().NoError(err)
	suite.False(matched)
	suite.Empty(categoryID)
	suite.Equal(domain.UncategorizedName, categoryName)
	suite.mockCategoryRepo.AssertNotCalled(suite.T(), "ListCategories", mock.Anything)
}
