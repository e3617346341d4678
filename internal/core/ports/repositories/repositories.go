package repositories

// RepositoryProvider bundles every repository implementation for injection
// into the service layer.
type RepositoryProvider struct {
	AccountRepo     AccountRepository
	CategoryRepo    CategoryRepository
	RuleRepo        RuleRepository
	TransactionRepo TransactionRepository
	SyncRepo        SyncRepository
	SnapshotRepo    SnapshotRepository
	AuditRepo       AuditRepository
}
