package repositories

import (
	"context"

	"github.com/hearthfin/hearth_finance_app/internal/core/domain"
)

// CategoryReader defines read operations for category data.
type CategoryReader interface {
	// FindCategoryByID retrieves a specific category by its unique identifier.
	FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error)

	// ListCategories retrieves all categories.
	ListCategories(ctx context.Context) ([]domain.Category, error)

	// ChangedCategoriesSince returns categories with a version token strictly
	// greater than afterVersion, ordered by version.
	ChangedCategoriesSince(ctx context.Context, afterVersion int64) ([]domain.Category, error)
}

// CategoryWriter defines write operations for category data.
type CategoryWriter interface {
	// SaveCategory persists a new category and returns it with its assigned version.
	SaveCategory(ctx context.Context, category domain.Category) (*domain.Category, error)

	// UpdateCategory updates an existing category's details.
	UpdateCategory(ctx context.Context, category domain.Category) (*domain.Category, error)

	// DeleteCategory removes a category. Transactions referencing it keep
	// their denormalized category name but have their category ID cleared
	// (and their version bumped) within the same database transaction.
	DeleteCategory(ctx context.Context, categoryID string) error
}

// CategoryRepository combines all category repository operations.
type CategoryRepository interface {
	CategoryReader
	CategoryWriter
}
