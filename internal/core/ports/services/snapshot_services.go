package services

import (
	"context"

	"github.com/hearthfin/hearth_finance_app/internal/core/domain"
)

// SnapshotSvcFacade exposes full-store backup and restore.
type SnapshotSvcFacade interface {
	// Export serializes the complete current state with a schema version tag
	// and export timestamp.
	Export(ctx context.Context, actor string) (*domain.Snapshot, error)

	// Import validates the payload and atomically replaces the store with
	// it. Either the whole snapshot is adopted or none of it is.
	Import(ctx context.Context, actor string, snap domain.Snapshot) error
}
