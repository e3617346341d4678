package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hearthfin/hearth_finance_app/internal/apperrors"
	"github.com/hearthfin/hearth_finance_app/internal/core/domain"
	portsrepo "github.com/hearthfin/hearth_finance_app/internal/core/ports/repositories"
	portssvc "github.com/hearthfin/hearth_finance_app/internal/core/ports/services"
	"github.com/hearthfin/hearth_finance_app/internal/middleware"
)

// SnapshotService implements full-store backup and restore. Import uses
// replace semantics: the payload becomes the entire store, version tokens
// included, or nothing changes at all.
type SnapshotService struct {
	snapshotRepo portsrepo.SnapshotRepository
	audit        portssvc.AuditSvc
}

// NewSnapshotService creates a new SnapshotService.
func NewSnapshotService(snapshotRepo portsrepo.SnapshotRepository, audit portssvc.AuditSvc) *SnapshotService {
	return &SnapshotService{snapshotRepo: snapshotRepo, audit: audit}
}

var _ portssvc.SnapshotSvcFacade = (*SnapshotService)(nil)

// Export serializes the complete current state.
func (s *SnapshotService) Export(ctx context.Context, actor string) (*domain.Snapshot, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	snap, err := s.snapshotRepo.ExportAll(ctx)
	if err != nil {
		logger.Error("Failed to export snapshot", slog.String("error", err.Error()))
		return nil, err
	}
	snap.SchemaVersion = domain.SnapshotSchemaVersion
	snap.ExportedAt = time.Now().UTC()

	s.audit.RecordAction(ctx, actor, "export", "", "",
		fmt.Sprintf(`{"accounts":%d,"categories":%d,"rules":%d,"transactions":%d}`,
			len(snap.Accounts), len(snap.Categories), len(snap.Rules), len(snap.Transactions)))

	logger.Info("Snapshot exported",
		slog.Int("accounts", len(snap.Accounts)),
		slog.Int("categories", len(snap.Categories)),
		slog.Int("rules", len(snap.Rules)),
		slog.Int("transactions", len(snap.Transactions)),
	)
	return snap, nil
}

// Import validates the payload and atomically replaces the store with it.
func (s *SnapshotService) Import(ctx context.Context, actor string, snap domain.Snapshot) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validateSnapshot(snap); err != nil {
		logger.Warn("Rejected snapshot import", slog.String("error", err.Error()))
		return err
	}

	if err := s.snapshotRepo.ImportReplace(ctx, snap); err != nil {
		logger.Error("Failed to import snapshot", slog.String("error", err.Error()))
		return err
	}

	s.audit.RecordAction(ctx, actor, "import", "", "",
		fmt.Sprintf(`{"accounts":%d,"categories":%d,"rules":%d,"transactions":%d}`,
			len(snap.Accounts), len(snap.Categories), len(snap.Rules), len(snap.Transactions)))

	logger.Info("Snapshot imported",
		slog.Int("accounts", len(snap.Accounts)),
		slog.Int("categories", len(snap.Categories)),
		slog.Int("rules", len(snap.Rules)),
		slog.Int("transactions", len(snap.Transactions)),
	)
	return nil
}

// validateSnapshot rejects unknown schema versions and malformed entity
// shapes before anything touches the store.
func validateSnapshot(snap domain.Snapshot) error {
	if snap.SchemaVersion != domain.SnapshotSchemaVersion {
		return fmt.Errorf("%w: unsupported snapshot schema version %d", apperrors.ErrValidation, snap.SchemaVersion)
	}
	for i, a := range snap.Accounts {
		if a.AccountID == "" || strings.TrimSpace(a.Name) == "" {
			return fmt.Errorf("%w: account %d is missing ID or name", apperrors.ErrValidation, i)
		}
	}
	for i, c := range snap.Categories {
		if c.CategoryID == "" || strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("%w: category %d is missing ID or name", apperrors.ErrValidation, i)
		}
		if c.MonthlyBudget.IsNegative() {
			return fmt.Errorf("%w: category %d has a negative monthly budget", apperrors.ErrValidation, i)
		}
	}
	for i, r := range snap.Rules {
		if r.RuleID == "" || strings.TrimSpace(r.Name) == "" {
			return fmt.Errorf("%w: rule %d is missing ID or name", apperrors.ErrValidation, i)
		}
		if !domain.KnownMatchType(r.MatchType) {
			return fmt.Errorf("%w: rule %d has unknown match type %q", apperrors.ErrValidation, i, r.MatchType)
		}
	}
	for i, t := range snap.Transactions {
		if t.TransactionID == "" || t.AccountID == "" {
			return fmt.Errorf("%w: transaction %d is missing ID or account", apperrors.ErrValidation, i)
		}
	}
	return nil
}
