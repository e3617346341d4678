package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the database representation of a transaction row.
// CategoryID and TransferID use pointers for nullable columns.
type Transaction struct {
	TransactionID string          `db:"transaction_id"`
	Date          time.Time       `db:"date"`
	Description   string          `db:"description"`
	CategoryID    *string         `db:"category_id"`
	CategoryName  string          `db:"category_name"`
	Amount        decimal.Decimal `db:"amount"`
	Type          string          `db:"type"`
	AccountID     string          `db:"account_id"`
	Status        string          `db:"status"`
	Notes         string          `db:"notes"`
	TransferID    *string         `db:"transfer_id"`
	AuditFields
	Version int64 `db:"version"`
}
