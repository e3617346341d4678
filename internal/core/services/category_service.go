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

// CategoryService implements category CRUD.
type CategoryService struct {
	categoryRepo portsrepo.CategoryRepository
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(repo portsrepo.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: repo}
}

var _ portssvc.CategorySvcFacade = (*CategoryService)(nil)

// CreateCategory creates a new spending category.
func (s *CategoryService) CreateCategory(ctx context.Context, actor string, req dto.CreateCategoryRequest) (*domain.Category, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", apperrors.ErrValidation)
	}
	if req.MonthlyBudget.IsNegative() {
		return nil, fmt.Errorf("%w: monthly budget must not be negative", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	category := domain.Category{
		CategoryID:    uuid.NewString(),
		Name:          name,
		Icon:          req.Icon,
		Color:         req.Color,
		MonthlyBudget: req.MonthlyBudget,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}

	saved, err := s.categoryRepo.SaveCategory(ctx, category)
	if err != nil {
		logger.Error("Failed to save category", slog.String("error", err.Error()), slog.String("category_id", category.CategoryID))
		return nil, err
	}

	logger.Info("Category created", slog.String("category_id", saved.CategoryID), slog.String("name", saved.Name))
	return saved, nil
}

// GetCategoryByID retrieves a category.
func (s *CategoryService) GetCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	return s.categoryRepo.FindCategoryByID(ctx, categoryID)
}

// ListCategories retrieves all categories.
func (s *CategoryService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categoryRepo.ListCategories(ctx)
}

// UpdateCategory applies the provided fields to an existing category.
func (s *CategoryService) UpdateCategory(ctx context.Context, actor string, categoryID string, req dto.UpdateCategoryRequest) (*domain.Category, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	category, err := s.categoryRepo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: category name is required", apperrors.ErrValidation)
		}
		category.Name = name
	}
	if req.Icon != nil {
		category.Icon = *req.Icon
	}
	if req.Color != nil {
		category.Color = *req.Color
	}
	if req.MonthlyBudget != nil {
		if req.MonthlyBudget.IsNegative() {
			return nil, fmt.Errorf("%w: monthly budget must not be negative", apperrors.ErrValidation)
		}
		category.MonthlyBudget = *req.MonthlyBudget
	}
	category.LastUpdatedAt = time.Now().UTC()
	category.LastUpdatedBy = actor

	updated, err := s.categoryRepo.UpdateCategory(ctx, *category)
	if err != nil {
		logger.Error("Failed to update category", slog.String("error", err.Error()), slog.String("category_id", categoryID))
		return nil, err
	}

	logger.Info("Category updated", slog.String("category_id", categoryID))
	return updated, nil
}

// DeleteCategory removes a category. Transactions keep their denormalized
// category name; only the reference is cleared.
func (s *CategoryService) DeleteCategory(ctx context.Context, actor string, categoryID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.categoryRepo.DeleteCategory(ctx, categoryID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to delete category", slog.String("error", err.Error()), slog.String("category_id", categoryID))
		}
		return err
	}

	logger.Info("Category deleted", slog.String("category_id", categoryID), slog.String("actor", actor))
	return nil
}
