package db

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/placementcrm/internal/pkg/apperrors"
)

type beginFunc func(ctx context.Context) (pgx.Tx, error)

func (f beginFunc) Begin(ctx context.Context) (pgx.Tx, error) { return f(ctx) }

// recordingTx implements the parts of pgx.Tx WithTransaction and LockPartition touch.
type recordingTx struct {
	pgx.Tx
	execSQL    []string
	execErr    error
	commitErr  error
	committed  bool
	rolledBack bool
}

func (tx *recordingTx) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	tx.execSQL = append(tx.execSQL, sql)
	return pgconn.CommandTag{}, tx.execErr
}

func (tx *recordingTx) Commit(context.Context) error {
	tx.committed = true
	return tx.commitErr
}

func (tx *recordingTx) Rollback(context.Context) error {
	tx.rolledBack = true
	return nil
}

func beginning(tx pgx.Tx) TxBeginner {
	return beginFunc(func(context.Context) (pgx.Tx, error) { return tx, nil })
}

func TestWithTransactionCommits(t *testing.T) {
	tx := &recordingTx{}
	err := WithTransaction(context.Background(), beginning(tx), func(ctx context.Context, tx pgx.Tx) error {
		return LockPartition(ctx, tx, "student:TM")
	})

	require.NoError(t, err)
	assert.True(t, tx.committed)
	assert.False(t, tx.rolledBack)
	require.Len(t, tx.execSQL, 1)
	assert.Contains(t, tx.execSQL[0], "pg_advisory_xact_lock")
}

func TestWithTransactionRollsBackOnError(t *testing.T) {
	tx := &recordingTx{}
	failure := errors.New("insert failed")

	err := WithTransaction(context.Background(), beginning(tx), func(context.Context, pgx.Tx) error {
		return failure
	})

	assert.ErrorIs(t, err, failure)
	assert.True(t, tx.rolledBack)
	assert.False(t, tx.committed)
}

func TestWithTransactionBeginFailureIsStorageUnavailable(t *testing.T) {
	refused := errors.New("dial tcp 127.0.0.1:5432: connection refused")
	called := false

	err := WithTransaction(context.Background(), beginFunc(func(context.Context) (pgx.Tx, error) {
		return nil, refused
	}), func(context.Context, pgx.Tx) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, apperrors.ErrStorageUnavailable)
	assert.ErrorIs(t, err, refused)
	assert.False(t, called)
}

func TestWithTransactionCommitFailureIsStorageUnavailable(t *testing.T) {
	tx := &recordingTx{commitErr: errors.New("conn closed")}

	err := WithTransaction(context.Background(), beginning(tx), func(context.Context, pgx.Tx) error {
		return nil
	})

	assert.ErrorIs(t, err, apperrors.ErrStorageUnavailable)
	assert.True(t, tx.committed)
}

func TestLockPartitionReportsFailure(t *testing.T) {
	tx := &recordingTx{execErr: errors.New("lock timeout")}
	err := LockPartition(context.Background(), tx, "job:INF-050324")
	assert.ErrorContains(t, err, "job:INF-050324")
}
