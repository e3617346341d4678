package pgsql

import (
	portsrepo "github.com/hearthfin/hearth_finance_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider builds the full set of Postgres repositories on one
// shared pool.
func NewRepositoryProvider(pool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		AccountRepo:     NewAccountRepository(pool),
		CategoryRepo:    NewCategoryRepository(pool),
		RuleRepo:        NewRuleRepository(pool),
		TransactionRepo: NewTransactionRepository(pool),
		SyncRepo:        NewSyncRepository(pool),
		SnapshotRepo:    NewSnapshotRepository(pool),
		AuditRepo:       NewAuditRepository(pool),
	}
}
