package pgsql

import (
	"context"
	"fmt"

	"github.com/hearthfin/hearth_finance_app/internal/core/domain"
	portsrepo "github.com/hearthfin/hearth_finance_app/internal/core/ports/repositories"
	"github.com/hearthfin/hearth_finance_app/internal/models"
	"github.com/hearthfin/hearth_finance_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const transactionColumns = "transaction_id, date, description, category_id, category_name, amount, type, account_id, status, notes, transfer_id, created_at, created_by, last_updated_at, last_updated_by, version"

const insertTransactionSQL = `
	INSERT INTO transactions (transaction_id, date, description, category_id, category_name, amount, type, account_id, status, notes, transfer_id, created_at, created_by, last_updated_at, last_updated_by, version)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, nextval('sync_version_seq'))
	RETURNING version`

// TransactionRepository is the Postgres implementation of transaction
// persistence.
type TransactionRepository struct {
	BaseRepository
}

// NewTransactionRepository creates a new repository for transaction data.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{BaseRepository: NewBaseRepository(pool)}
}

var _ portsrepo.TransactionRepository = (*TransactionRepository)(nil)

func insertTransactionArgs(m models.Transaction) []any {
	return []any{
		m.TransactionID, m.Date, m.Description, m.CategoryID, m.CategoryName,
		m.Amount, m.Type, m.AccountID, m.Status, m.Notes, m.TransferID,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	}
}

func insertTransactionRow(ctx context.Context, q Querier, m models.Transaction) (int64, error) {
	var version int64
	err := q.QueryRow(ctx, insertTransactionSQL, insertTransactionArgs(m)...).Scan(&version)
	return version, err
}

func updateTransactionRow(ctx context.Context, q Querier, m models.Transaction) (int64, error) {
	var version int64
	err := q.QueryRow(ctx, `
		UPDATE transactions
		SET date = $2, description = $3, category_id = $4, category_name = $5, amount = $6, type = $7, account_id = $8, status = $9, notes = $10, transfer_id = $11, last_updated_at = $12, last_updated_by = $13, version = nextval('sync_version_seq')
		WHERE transaction_id = $1
		RETURNING version`,
		m.TransactionID, m.Date, m.Description, m.CategoryID, m.CategoryName,
		m.Amount, m.Type, m.AccountID, m.Status, m.Notes, m.TransferID,
		m.LastUpdatedAt, m.LastUpdatedBy,
	).Scan(&version)
	return version, err
}

func deleteTransactionRow(ctx context.Context, q Querier, transactionID string) error {
	tag, err := q.Exec(ctx, `DELETE FROM transactions WHERE transaction_id = $1`, transactionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// SaveTransaction inserts a new transaction.
func (r *TransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) (*domain.Transaction, error) {
	m := mapping.ToModelTransaction(txn)
	var version int64
	err := r.withWriteTx(ctx, func(tx pgx.Tx) error {
		var err error
		version, err = insertTransactionRow(ctx, tx, m)
		return err
	})
	if err != nil {
		return nil, translateErr(err, fmt.Sprintf("save transaction %s", txn.TransactionID))
	}
	txn.Version = version
	return &txn, nil
}

// SaveTransactionsBatch inserts all rows inside one database transaction
// using a pipelined batch. Any failure rolls back every row.
func (r *TransactionRepository) SaveTransactionsBatch(ctx context.Context, txns []domain.Transaction) ([]domain.Transaction, error) {
	if len(txns) == 0 {
		return []domain.Transaction{}, nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, translateErr(err, "save transaction batch")
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if err := lockStoreShared(ctx, tx); err != nil {
		return nil, translateErr(err, "save transaction batch")
	}

	batch := &pgx.Batch{}
	for _, txn := range txns {
		batch.Queue(insertTransactionSQL, insertTransactionArgs(mapping.ToModelTransaction(txn))...)
	}

	br := tx.SendBatch(ctx, batch)
	out := make([]domain.Transaction, len(txns))
	for i, txn := range txns {
		var version int64
		if err := br.QueryRow().Scan(&version); err != nil {
			_ = br.Close()
			return nil, translateErr(err, fmt.Sprintf("save transaction %s in batch", txn.TransactionID))
		}
		txn.Version = version
		out[i] = txn
	}
	if err := br.Close(); err != nil {
		return nil, translateErr(err, "save transaction batch")
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, translateErr(err, "save transaction batch")
	}
	return out, nil
}

// UpdateTransaction updates an existing transaction.
func (r *TransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction) (*domain.Transaction, error) {
	m := mapping.ToModelTransaction(txn)
	var version int64
	err := r.withWriteTx(ctx, func(tx pgx.Tx) error {
		var err error
		version, err = updateTransactionRow(ctx, tx, m)
		return err
	})
	if err != nil {
		return nil, translateErr(err, fmt.Sprintf("update transaction %s", txn.TransactionID))
	}
	txn.Version = version
	return &txn, nil
}

// DeleteTransaction removes a transaction.
func (r *TransactionRepository) DeleteTransaction(ctx context.Context, transactionID string) error {
	err := r.withWriteTx(ctx, func(tx pgx.Tx) error {
		return deleteTransactionRow(ctx, tx, transactionID)
	})
	if err != nil {
		return translateErr(err, fmt.Sprintf("delete transaction %s", transactionID))
	}
	return nil
}

// FindTransactionByID retrieves a transaction by its ID.
func (r *TransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE transaction_id = $1`, transactionID)
	if err != nil {
		return nil, translateErr(err, fmt.Sprintf("find transaction %s", transactionID))
	}
	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Transaction])
	if err != nil {
		return nil, translateErr(err, fmt.Sprintf("find transaction %s", transactionID))
	}
	d := mapping.ToDomainTransaction(m)
	return &d, nil
}

// ListTransactions retrieves a page of transactions, newest first.
func (r *TransactionRepository) ListTransactions(ctx context.Context, limit int, offset int) ([]domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+transactionColumns+` FROM transactions ORDER BY date DESC, transaction_id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, translateErr(err, "list transactions")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Transaction])
	if err != nil {
		return nil, translateErr(err, "list transactions")
	}
	return mapping.ToDomainTransactionSlice(ms), nil
}

// ChangedTransactionsSince returns transactions whose version token is
// strictly greater than afterVersion.
func (r *TransactionRepository) ChangedTransactionsSince(ctx context.Context, afterVersion int64) ([]domain.Transaction, error) {
	ms, err := changedTransactionRows(ctx, r.pool, afterVersion)
	if err != nil {
		return nil, translateErr(err, "list changed transactions")
	}
	return mapping.ToDomainTransactionSlice(ms), nil
}

func changedTransactionRows(ctx context.Context, q Querier, afterVersion int64) ([]models.Transaction, error) {
	rows, err := q.Query(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE version > $1 ORDER BY version`, afterVersion)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[models.Transaction])
}

func lockTransactionVersion(ctx context.Context, q Querier, transactionID string) (int64, error) {
	var version int64
	err := q.QueryRow(ctx, `SELECT version FROM transactions WHERE transaction_id = $1 FOR UPDATE`, transactionID).Scan(&version)
	if err != nil {
		return 0, translateErr(err, fmt.Sprintf("lock transaction %s", transactionID))
	}
	return version, nil
}
