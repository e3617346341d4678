package services

import (
	"context"

	"github.com/hearthfin/hearth_finance_app/internal/core/domain"
)

// SyncSvcFacade exposes the incremental synchronization engine.
type SyncSvcFacade interface {
	// Pull returns everything changed after the cursor, plus a new cursor.
	// An empty cursor yields the full current state; an unparseable cursor
	// fails with a validation error.
	Pull(ctx context.Context, cursor string) (*domain.ChangeSet, error)

	// Push applies a batch of client-proposed mutations in order. Mutations
	// whose base version is stale are reported as conflicts and skipped;
	// conflicts are data, never errors.
	Push(ctx context.Context, actor string, muts []domain.Mutation) (*domain.PushResult, error)
}
