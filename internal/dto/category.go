package dto

import (
	"time"

	"github.com/hearthfin/hearth_finance_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateCategoryRequest defines the data needed to create a new category.
type CreateCategoryRequest struct {
	Name          string          `json:"name" binding:"required,notblank"`
	Icon          string          `json:"icon"`
	Color         string          `json:"color"`
	MonthlyBudget decimal.Decimal `json:"monthlyBudget"`
}

// UpdateCategoryRequest defines the data allowed for updating a category.
type UpdateCategoryRequest struct {
	Name          *string          `json:"name"`
	Icon          *string          `json:"icon"`
	Color         *string          `json:"color"`
	MonthlyBudget *decimal.Decimal `json:"monthlyBudget"`
}

// CategoryResponse defines the data returned for a category.
type CategoryResponse struct {
	CategoryID    string          `json:"categoryID"`
	Name          string          `json:"name"`
	Icon          string          `json:"icon"`
	Color         string          `json:"color"`
	MonthlyBudget decimal.Decimal `json:"monthlyBudget"`
	CreatedAt     time.Time       `json:"createdAt"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
	Version       int64           `json:"version"`
}

// ToCategoryResponse converts a domain.Category to a CategoryResponse DTO.
func ToCategoryResponse(cat *domain.Category) CategoryResponse {
	return CategoryResponse{
		CategoryID:    cat.CategoryID,
		Name:          cat.Name,
		Icon:          cat.Icon,
		Color:         cat.Color,
		MonthlyBudget: cat.MonthlyBudget,
		CreatedAt:     cat.CreatedAt,
		LastUpdatedAt: cat.LastUpdatedAt,
		Version:       cat.Version,
	}
}

// ToListCategoryResponse converts a slice of domain.Category to response DTOs.
func ToListCategoryResponse(categories []domain.Category) []CategoryResponse {
	res := make([]CategoryResponse, len(categories))
	for i := range categories {
		res[i] = ToCategoryResponse(&categories[i])
	}
	return res
}
