package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType discriminates income from expense rows. The amount sign
// follows the type: expense amounts are negative, income amounts positive.
type TransactionType string

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// TransactionStatus tracks the settlement state of a transaction.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusCleared   TransactionStatus = "cleared"
)

// Transaction is a single dated movement on an account. CategoryName is a
// denormalized snapshot of the category at assignment time; it survives
// category deletion. TransferID links the two legs of a transfer.
type Transaction struct {
	TransactionID string            `json:"transactionID"` // Primary Key (UUID)
	Date          time.Time         `json:"date"`
	Description   string            `json:"description"`
	CategoryID    *string           `json:"categoryID"` // Nullable FK -> Category
	CategoryName  string            `json:"categoryName"`
	Amount        decimal.Decimal   `json:"amount"` // Signed: expense < 0, income > 0
	Type          TransactionType   `json:"type"`
	AccountID     string            `json:"accountID"` // FK -> Account
	Status        TransactionStatus `json:"status"`
	Notes         string            `json:"notes"`
	TransferID    *string           `json:"transferID"` // Shared by both legs of a transfer
	AuditFields
	Version int64 `json:"version"`
}
