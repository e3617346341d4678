package models

import "github.com/shopspring/decimal"

// Category is the database representation of a spending category.
type Category struct {
	CategoryID    string          `db:"category_id"`
	Name          string          `db:"name"`
	Icon          string          `db:"icon"`
	Color         string          `db:"color"`
	MonthlyBudget decimal.Decimal `db:"monthly_budget"`
	AuditFields
	Version int64 `db:"version"`
}
