package repositories

import (
	"context"

	"github.com/hearthfin/hearth_finance_app/internal/core/domain"
)

// SnapshotRepository serializes and restores the entire store. Both
// operations take an exclusive store-wide lock so no push can interleave
// with a snapshot swap.
type SnapshotRepository interface {
	// ExportAll reads every collection wholesale within one transaction.
	ExportAll(ctx context.Context) (*domain.Snapshot, error)

	// ImportReplace atomically replaces the store's contents with the
	// snapshot, preserving entity IDs and version tokens, and advances the
	// version sequence past the highest imported token.
	ImportReplace(ctx context.Context, snap domain.Snapshot) error
}
