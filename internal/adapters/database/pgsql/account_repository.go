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

const accountColumns = "account_id, name, currency_code, created_at, created_by, last_updated_at, last_updated_by, version"

// AccountRepository is the Postgres implementation of account persistence.
type AccountRepository struct {
	BaseRepository
}

// NewAccountRepository creates a new repository for account data.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{BaseRepository: NewBaseRepository(pool)}
}

var _ portsrepo.AccountRepository = (*AccountRepository)(nil)

// insertAccountRow inserts the account and returns its assigned version.
func insertAccountRow(ctx context.Context, q Querier, m models.Account) (int64, error) {
	var version int64
	err := q.QueryRow(ctx, `
		INSERT INTO accounts (account_id, name, currency_code, created_at, created_by, last_updated_at, last_updated_by, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, nextval('sync_version_seq'))
		RETURNING version`,
		m.AccountID, m.Name, m.CurrencyCode,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	).Scan(&version)
	return version, err
}

// updateAccountRow overwrites the account's fields and returns the fresh version.
func updateAccountRow(ctx context.Context, q Querier, m models.Account) (int64, error) {
	var version int64
	err := q.QueryRow(ctx, `
		UPDATE accounts
		SET name = $2, currency_code = $3, last_updated_at = $4, last_updated_by = $5, version = nextval('sync_version_seq')
		WHERE account_id = $1
		RETURNING version`,
		m.AccountID, m.Name, m.CurrencyCode, m.LastUpdatedAt, m.LastUpdatedBy,
	).Scan(&version)
	return version, err
}

func deleteAccountRow(ctx context.Context, q Querier, accountID string) error {
	tag, err := q.Exec(ctx, `DELETE FROM accounts WHERE account_id = $1`, accountID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// SaveAccount inserts a new account.
func (r *AccountRepository) SaveAccount(ctx context.Context, account domain.Account) (*domain.Account, error) {
	m := mapping.ToModelAccount(account)
	var version int64
	err := r.withWriteTx(ctx, func(tx pgx.Tx) error {
		var err error
		version, err = insertAccountRow(ctx, tx, m)
		return err
	})
	if err != nil {
		return nil, translateErr(err, fmt.Sprintf("save account %s", account.AccountID))
	}
	account.Version = version
	return &account, nil
}

// UpdateAccount updates an existing account.
func (r *AccountRepository) UpdateAccount(ctx context.Context, account domain.Account) (*domain.Account, error) {
	m := mapping.ToModelAccount(account)
	var version int64
	err := r.withWriteTx(ctx, func(tx pgx.Tx) error {
		var err error
		version, err = updateAccountRow(ctx, tx, m)
		return err
	})
	if err != nil {
		return nil, translateErr(err, fmt.Sprintf("update account %s", account.AccountID))
	}
	account.Version = version
	return &account, nil
}

// DeleteAccount removes an account.
func (r *AccountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	err := r.withWriteTx(ctx, func(tx pgx.Tx) error {
		return deleteAccountRow(ctx, tx, accountID)
	})
	if err != nil {
		return translateErr(err, fmt.Sprintf("delete account %s", accountID))
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *AccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+accountColumns+` FROM accounts WHERE account_id = $1`, accountID)
	if err != nil {
		return nil, translateErr(err, fmt.Sprintf("find account %s", accountID))
	}
	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, translateErr(err, fmt.Sprintf("find account %s", accountID))
	}
	d := mapping.ToDomainAccount(m)
	return &d, nil
}

// FindAccountByName retrieves an account by its unique name.
func (r *AccountRepository) FindAccountByName(ctx context.Context, name string) (*domain.Account, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+accountColumns+` FROM accounts WHERE name = $1`, name)
	if err != nil {
		return nil, translateErr(err, fmt.Sprintf("find account named %q", name))
	}
	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, translateErr(err, fmt.Sprintf("find account named %q", name))
	}
	d := mapping.ToDomainAccount(m)
	return &d, nil
}

// FindAccountsByIDs retrieves multiple accounts keyed by ID. Missing IDs are
// simply absent from the result.
func (r *AccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	rows, err := r.pool.Query(ctx, `SELECT `+accountColumns+` FROM accounts WHERE account_id = ANY($1)`, accountIDs)
	if err != nil {
		return nil, translateErr(err, "find accounts by IDs")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, translateErr(err, "find accounts by IDs")
	}
	out := make(map[string]domain.Account, len(ms))
	for _, m := range ms {
		out[m.AccountID] = mapping.ToDomainAccount(m)
	}
	return out, nil
}

// ListAccounts retrieves a paginated list of accounts ordered by name.
func (r *AccountRepository) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, translateErr(err, "list accounts")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, translateErr(err, "list accounts")
	}
	return mapping.ToDomainAccountSlice(ms), nil
}

// ChangedAccountsSince returns accounts whose version token is strictly
// greater than afterVersion.
func (r *AccountRepository) ChangedAccountsSince(ctx context.Context, afterVersion int64) ([]domain.Account, error) {
	ms, err := changedAccountRows(ctx, r.pool, afterVersion)
	if err != nil {
		return nil, translateErr(err, "list changed accounts")
	}
	return mapping.ToDomainAccountSlice(ms), nil
}

func changedAccountRows(ctx context.Context, q Querier, afterVersion int64) ([]models.Account, error) {
	rows, err := q.Query(ctx, `SELECT `+accountColumns+` FROM accounts WHERE version > $1 ORDER BY version`, afterVersion)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[models.Account])
}

// lockAccountVersion reads the current version under FOR UPDATE, returning
// apperrors.ErrNotFound when the row does not exist.
func lockAccountVersion(ctx context.Context, q Querier, accountID string) (int64, error) {
	var version int64
	err := q.QueryRow(ctx, `SELECT version FROM accounts WHERE account_id = $1 FOR UPDATE`, accountID).Scan(&version)
	if err != nil {
		return 0, translateErr(err, fmt.Sprintf("lock account %s", accountID))
	}
	return version, nil
}
