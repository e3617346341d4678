package pgsql

import (
	"context"
	"testing"

	"github.com/hearthfin/hearth_finance_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordedQuery captures one statement issued through the fake.
type recordedQuery struct {
	sql  string
	args []any
}

// fakeQuerier records every statement so tests can assert on the exact SQL a
// helper issues without a live database.
type fakeQuerier struct {
	queries []recordedQuery
	execErr error
}

func (f *fakeQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.queries = append(f.queries, recordedQuery{sql: sql, args: args})
	return pgconn.NewCommandTag("SELECT 1"), f.execErr
}

func (f *fakeQuerier) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	f.queries = append(f.queries, recordedQuery{sql: sql, args: args})
	return nil, nil
}

func (f *fakeQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	f.queries = append(f.queries, recordedQuery{sql: sql, args: args})
	return nil
}

func TestLockStoreShared_IssuesSharedAdvisoryLock(t *testing.T) {
	q := &fakeQuerier{}

	err := lockStoreShared(context.Background(), q)

	require.NoError(t, err)
	require.Len(t, q.queries, 1)
	assert.Equal(t, `SELECT pg_advisory_xact_lock_shared($1)`, q.queries[0].sql)
	assert.Equal(t, []any{storeLockKey}, q.queries[0].args)
}

func TestLockStoreExclusive_IssuesExclusiveAdvisoryLock(t *testing.T) {
	q := &fakeQuerier{}

	err := lockStoreExclusive(context.Background(), q)

	require.NoError(t, err)
	require.Len(t, q.queries, 1)
	assert.Equal(t, `SELECT pg_advisory_xact_lock($1)`, q.queries[0].sql)
	assert.Equal(t, []any{storeLockKey}, q.queries[0].args)
}

func TestLockStore_SharedAndExclusiveUseSameKey(t *testing.T) {
	shared := &fakeQuerier{}
	exclusive := &fakeQuerier{}

	require.NoError(t, lockStoreShared(context.Background(), shared))
	require.NoError(t, lockStoreExclusive(context.Background(), exclusive))

	// Writers and drainers must contend on one key or the drain is a no-op.
	assert.Equal(t, shared.queries[0].args, exclusive.queries[0].args)
}

func TestLockStoreShared_PropagatesError(t *testing.T) {
	q := &fakeQuerier{execErr: assert.AnError}

	assert.ErrorIs(t, lockStoreShared(context.Background(), q), assert.AnError)
}

func TestDetectConflict(t *testing.T) {
	tests := []struct {
		name          string
		op            domain.MutationOp
		baseVersion   int64
		exists        bool
		serverVersion int64
		wantConflict  bool
	}{
		{name: "create of a fresh id applies", op: domain.OpCreate, exists: false, wantConflict: false},
		{name: "create of an existing id conflicts", op: domain.OpCreate, exists: true, serverVersion: 7, wantConflict: true},
		{name: "update at the server version applies", op: domain.OpUpdate, baseVersion: 7, exists: true, serverVersion: 7, wantConflict: false},
		{name: "update with a stale base conflicts", op: domain.OpUpdate, baseVersion: 6, exists: true, serverVersion: 7, wantConflict: true},
		{name: "update of a missing row conflicts", op: domain.OpUpdate, baseVersion: 7, exists: false, wantConflict: true},
		{name: "delete at the server version applies", op: domain.OpDelete, baseVersion: 7, exists: true, serverVersion: 7, wantConflict: false},
		{name: "delete of a missing row conflicts", op: domain.OpDelete, baseVersion: 7, exists: false, wantConflict: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := domain.DecodedMutation{
				EntityType:  domain.EntityTransaction,
				Op:          tc.op,
				EntityID:    "txn-1",
				BaseVersion: tc.baseVersion,
			}

			conflict, got := detectConflict(m, tc.exists, tc.serverVersion)

			assert.Equal(t, tc.wantConflict, got)
			if tc.wantConflict {
				assert.Equal(t, domain.EntityTransaction, conflict.EntityType)
				assert.Equal(t, "txn-1", conflict.EntityID)
				assert.Equal(t, tc.serverVersion, conflict.ServerVersion)
				assert.Equal(t, tc.baseVersion, conflict.ClientVersion)
				assert.Equal(t, "unresolved", conflict.Resolution)
			}
		})
	}
}
