package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/hearthfin/hearth_finance_app/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// versionSeq is the store-wide sequence behind every version token. One
// sequence across all tables keeps tokens totally ordered, which is what the
// pull cursor relies on.
const versionSeq = "sync_version_seq"

const pgUniqueViolation = "23505"

// storeLockKey is the advisory lock coordinating writers with cursor
// computation and snapshot swaps. Every write transaction holds it in shared
// mode until commit; pull, export and import take it exclusively, so while
// they run no write holds an undrawn version token and no push can slip into
// a half-swapped store.
const storeLockKey = 829144001

// lockStoreShared marks the transaction as a store writer for the rest of
// its lifetime. Blocks while a pull or snapshot operation holds the
// exclusive lock.
func lockStoreShared(ctx context.Context, q Querier) error {
	_, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock_shared($1)`, storeLockKey)
	return err
}

// lockStoreExclusive waits out every in-flight write transaction and blocks
// new ones until commit. Must be the transaction's first statement so nothing
// is read before the store is quiescent.
func lockStoreExclusive(ctx context.Context, q Querier) error {
	_, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, storeLockKey)
	return err
}

// Querier is the subset of pgx satisfied by both *pgxpool.Pool and pgx.Tx,
// so row helpers work inside and outside explicit transactions.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// BaseRepository holds the shared connection pool and implements transaction
// management for repositories that embed it.
type BaseRepository struct {
	pool *pgxpool.Pool
}

// NewBaseRepository creates a BaseRepository backed by the given pool.
func NewBaseRepository(pool *pgxpool.Pool) BaseRepository {
	return BaseRepository{pool: pool}
}

// Begin starts a new database transaction.
func (r BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

// Commit commits a transaction.
func (r BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	return tx.Commit(ctx)
}

// Rollback rolls back a transaction. Rolling back after commit is a no-op.
func (r BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	err := tx.Rollback(ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return err
	}
	return nil
}

// withWriteTx runs fn in a transaction that holds the store lock in shared
// mode, which every write to the synced collections must do.
func (r BaseRepository) withWriteTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if err := lockStoreShared(ctx, tx); err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// translateErr maps driver errors onto the application sentinels so callers
// can use errors.Is without knowing about pgx.
func translateErr(err error, what string) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return fmt.Errorf("%s: %w", what, apperrors.ErrNotFound)
	case errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation:
		return fmt.Errorf("%s: %w", what, apperrors.ErrDuplicate)
	}
	return fmt.Errorf("%s: %w", what, err)
}
