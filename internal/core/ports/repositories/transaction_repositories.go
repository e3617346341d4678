package repositories

import (
	"context"

	"github.com/hearthfin/hearth_finance_app/internal/core/domain"
)

// TransactionReader defines read operations for transaction data.
type TransactionReader interface {
	// FindTransactionByID retrieves a specific transaction by its unique identifier.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves a paginated list of transactions ordered by
	// date descending.
	ListTransactions(ctx context.Context, limit int, offset int) ([]domain.Transaction, error)

	// ChangedTransactionsSince returns transactions with a version token
	// strictly greater than afterVersion, ordered by version.
	ChangedTransactionsSince(ctx context.Context, afterVersion int64) ([]domain.Transaction, error)
}

// TransactionWriter defines write operations for transaction data.
type TransactionWriter interface {
	// SaveTransaction persists a new transaction and returns it with its
	// assigned version.
	SaveTransaction(ctx context.Context, txn domain.Transaction) (*domain.Transaction, error)

	// SaveTransactionsBatch persists a batch of transactions atomically:
	// either every row is inserted or none is. Returns the rows with their
	// assigned versions, in input order.
	SaveTransactionsBatch(ctx context.Context, txns []domain.Transaction) ([]domain.Transaction, error)

	// UpdateTransaction updates an existing transaction.
	UpdateTransaction(ctx context.Context, txn domain.Transaction) (*domain.Transaction, error)

	// DeleteTransaction removes a transaction.
	DeleteTransaction(ctx context.Context, transactionID string) error
}

// TransactionRepository combines all transaction repository operations.
type TransactionRepository interface {
	TransactionReader
	TransactionWriter
}
