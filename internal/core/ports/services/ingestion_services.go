package services

import (
	"context"

	"github.com/hearthfin/hearth_finance_app/internal/core/domain"
	"github.com/hearthfin/hearth_finance_app/internal/dto"
)

// IngestionSvcFacade orchestrates bulk CSV import and paired transfer
// creation.
type IngestionSvcFacade interface {
	// ImportTransactions parses the uploaded CSV and either previews it
	// (dry run: first candidates, total, row errors, zero writes) or
	// commits it: uncategorized rows run through the automation rules and
	// all rows are persisted as one atomic batch.
	ImportTransactions(ctx context.Context, actor string, req dto.ImportTransactionsRequest) (*dto.ImportTransactionsResponse, error)

	// CreateTransfer atomically creates the two legs of a transfer: shared
	// transfer ID, equal absolute amounts with opposite signs, identical
	// date and status, distinct accounts.
	CreateTransfer(ctx context.Context, actor string, req dto.CreateTransferRequest) ([]domain.Transaction, error)
}
