package repositories

import (
	"context"

	"github.com/hearthfin/hearth_finance_app/internal/core/domain"
)

// SyncRepository implements the transactional composites of the sync engine.
// Both operations run inside a single database transaction so devices always
// observe a consistent point-in-time view.
type SyncRepository interface {
	// PullChanges returns every entity with a version token strictly greater
	// than afterVersion, plus the new cursor. The read is a consistent
	// snapshot: a write racing with the pull is either fully included or
	// fully excluded.
	PullChanges(ctx context.Context, afterVersion int64) (*domain.ChangeSet, error)

	// ApplyMutations applies a push batch in order within one database
	// transaction. Mutations whose base version no longer matches the
	// server's are skipped and reported as conflicts (server wins); effects
	// of applied mutations are visible to later mutations in the same batch.
	// A storage failure rolls back the entire batch.
	ApplyMutations(ctx context.Context, actor string, muts []domain.DecodedMutation) (*domain.PushResult, error)
}
