package domain

import "github.com/shopspring/decimal"

// UncategorizedName is the fallback label for transactions without a
// resolvable category. It is kept on the transaction as a historical
// snapshot even after the category itself is deleted.
const UncategorizedName = "Uncategorized"

// Category is a user-defined spending category with an optional monthly budget.
type Category struct {
	CategoryID    string          `json:"categoryID"` // Primary Key (UUID)
	Name          string          `json:"name"`
	Icon          string          `json:"icon"`
	Color         string          `json:"color"`
	MonthlyBudget decimal.Decimal `json:"monthlyBudget"` // >= 0
	AuditFields
	Version int64 `json:"version"`
}
