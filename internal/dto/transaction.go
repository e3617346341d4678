package dto

import (
	"time"

	"github.com/hearthfin/hearth_finance_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest defines the data needed to record a transaction
// manually. The amount is signed (expense < 0, income > 0); the type is
// derived from the sign. When CategoryID is omitted the automation rules are
// consulted.
type CreateTransactionRequest struct {
	Date        time.Time                `json:"date" binding:"required"`
	Description string                   `json:"description" binding:"required,notblank"`
	Amount      decimal.Decimal          `json:"amount" binding:"required"`
	AccountID   string                   `json:"accountID" binding:"required,uuid"`
	CategoryID  *string                  `json:"categoryID"`
	Status      domain.TransactionStatus `json:"status" binding:"omitempty,oneof=pending completed cleared"`
	Notes       string                   `json:"notes"`
}

// UpdateTransactionRequest defines the data allowed for updating a transaction.
type UpdateTransactionRequest struct {
	Date        *time.Time                `json:"date"`
	Description *string                   `json:"description"`
	Amount      *decimal.Decimal          `json:"amount"`
	CategoryID  *string                   `json:"categoryID"`
	Status      *domain.TransactionStatus `json:"status"`
	Notes       *string                   `json:"notes"`
}

// CreateTransferRequest defines a transfer between two household accounts.
// Amount is the positive value moved from the source to the destination.
type CreateTransferRequest struct {
	FromAccountID string                   `json:"fromAccountID" binding:"required,uuid"`
	ToAccountID   string                   `json:"toAccountID" binding:"required,uuid"`
	Amount        decimal.Decimal          `json:"amount" binding:"required"`
	Date          time.Time                `json:"date" binding:"required"`
	Description   string                   `json:"description" binding:"required,notblank"`
	Status        domain.TransactionStatus `json:"status" binding:"omitempty,oneof=pending completed cleared"`
	Notes         string                   `json:"notes"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID string                   `json:"transactionID"`
	Date          time.Time                `json:"date"`
	Description   string                   `json:"description"`
	CategoryID    *string                  `json:"categoryID"`
	CategoryName  string                   `json:"categoryName"`
	Amount        decimal.Decimal          `json:"amount"`
	Type          domain.TransactionType   `json:"type"`
	AccountID     string                   `json:"accountID"`
	Status        domain.TransactionStatus `json:"status"`
	Notes         string                   `json:"notes"`
	TransferID    *string                  `json:"transferID"`
	CreatedAt     time.Time                `json:"createdAt"`
	LastUpdatedAt time.Time                `json:"lastUpdatedAt"`
	Version       int64                    `json:"version"`
}

// ToTransactionResponse converts a domain.Transaction to a response DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: txn.TransactionID,
		Date:          txn.Date,
		Description:   txn.Description,
		CategoryID:    txn.CategoryID,
		CategoryName:  txn.CategoryName,
		Amount:        txn.Amount,
		Type:          txn.Type,
		AccountID:     txn.AccountID,
		Status:        txn.Status,
		Notes:         txn.Notes,
		TransferID:    txn.TransferID,
		CreatedAt:     txn.CreatedAt,
		LastUpdatedAt: txn.LastUpdatedAt,
		Version:       txn.Version,
	}
}

// ToListTransactionResponse converts a slice of domain.Transaction to DTOs.
func ToListTransactionResponse(txns []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i := range txns {
		res[i] = ToTransactionResponse(&txns[i])
	}
	return res
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	Limit  int `form:"limit,default=50"`
	Offset int `form:"offset,default=0"`
}
