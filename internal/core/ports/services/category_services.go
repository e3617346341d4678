package services

import (
	"context"

	"github.com/hearthfin/hearth_finance_app/internal/core/domain"
	"github.com/hearthfin/hearth_finance_app/internal/dto"
)

// CategorySvcFacade exposes category CRUD. Deleting a category never
// cascades to transactions: their category ID is cleared but the
// denormalized name stays as a historical label.
type CategorySvcFacade interface {
	CreateCategory(ctx context.Context, actor string, req dto.CreateCategoryRequest) (*domain.Category, error)
	GetCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	UpdateCategory(ctx context.Context, actor string, categoryID string, req dto.UpdateCategoryRequest) (*domain.Category, error)
	DeleteCategory(ctx context.Context, actor string, categoryID string) error
}
