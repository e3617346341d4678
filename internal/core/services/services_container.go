package services

import (
	portsrepo "github.com/hearthfin/hearth_finance_app/internal/core/ports/repositories"
	portssvc "github.com/hearthfin/hearth_finance_app/internal/core/ports/services"
)

// NewServiceContainer wires every service against the repository provider.
func NewServiceContainer(repos *portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	audit := NewAuditService(repos.AuditRepo)

	return &portssvc.ServiceContainer{
		Account:     NewAccountService(repos.AccountRepo),
		Category:    NewCategoryService(repos.CategoryRepo),
		Rule:        NewRuleService(repos.RuleRepo, repos.CategoryRepo),
		Transaction: NewTransactionService(repos.TransactionRepo, repos.AccountRepo, repos.RuleRepo, repos.CategoryRepo),
		Sync:        NewSyncService(repos.SyncRepo, audit),
		Snapshot:    NewSnapshotService(repos.SnapshotRepo, audit),
		Ingestion:   NewIngestionService(repos.TransactionRepo, repos.AccountRepo, repos.RuleRepo, repos.CategoryRepo, audit),
		Audit:       audit,
	}
}
