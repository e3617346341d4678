package services

import (
	"context"

	"github.com/hearthfin/hearth_finance_app/internal/core/domain"
	"github.com/hearthfin/hearth_finance_app/internal/dto"
)

// TransactionSvcFacade exposes transaction CRUD. Manual creation without an
// explicit category consults the automation rules, same as bulk import.
type TransactionSvcFacade interface {
	CreateTransaction(ctx context.Context, actor string, req dto.CreateTransactionRequest) (*domain.Transaction, error)
	GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, limit int, offset int) ([]domain.Transaction, error)
	UpdateTransaction(ctx context.Context, actor string, transactionID string, req dto.UpdateTransactionRequest) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, actor string, transactionID string) error
}
