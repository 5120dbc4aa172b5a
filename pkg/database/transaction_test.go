package database

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTx records commit/rollback; other pgx.Tx methods are never called
type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
	commitErr  error
}

func (f *fakeTx) Commit(context.Context) error {
	f.committed = true
	return f.commitErr
}

func (f *fakeTx) Rollback(context.Context) error {
	if f.committed {
		return pgx.ErrTxClosed
	}
	f.rolledBack = true
	return nil
}

type fakeBeginner struct {
	tx       *fakeTx
	begins   int
	beginErr error
}

func (f *fakeBeginner) Begin(context.Context) (pgx.Tx, error) {
	f.begins++
	if f.beginErr != nil {
		return nil, f.beginErr
	}
	return f.tx, nil
}

func (f *fakeBeginner) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (f *fakeBeginner) Query(context.Context, string, ...any) (pgx.Rows, error) { return nil, nil }
func (f *fakeBeginner) QueryRow(context.Context, string, ...any) pgx.Row        { return nil }

func TestWithTx_Commit(t *testing.T) {
	db := &fakeBeginner{tx: &fakeTx{}}
	tr := NewTransactor(db)

	err := tr.WithTx(context.Background(), func(ctx context.Context) error {
		assert.Same(t, db.tx, Conn(ctx, db))
		return nil
	})

	require.NoError(t, err)
	assert.True(t, db.tx.committed)
	assert.False(t, db.tx.rolledBack)
}

func TestWithTx_RollbackOnError(t *testing.T) {
	db := &fakeBeginner{tx: &fakeTx{}}
	boom := errors.New("boom")

	err := NewTransactor(db).WithTx(context.Background(), func(context.Context) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.False(t, db.tx.committed)
	assert.True(t, db.tx.rolledBack)
}

func TestWithTx_RollbackOnPanic(t *testing.T) {
	db := &fakeBeginner{tx: &fakeTx{}}

	assert.Panics(t, func() {
		_ = NewTransactor(db).WithTx(context.Background(), func(context.Context) error {
			panic("boom")
		})
	})
	assert.True(t, db.tx.rolledBack)
}

func TestWithTx_CommitError(t *testing.T) {
	commitErr := errors.New("serialization failure")
	db := &fakeBeginner{tx: &fakeTx{commitErr: commitErr}}

	err := NewTransactor(db).WithTx(context.Background(), func(context.Context) error { return nil })
	assert.ErrorIs(t, err, commitErr)
}

func TestWithTx_Nested(t *testing.T) {
	db := &fakeBeginner{tx: &fakeTx{}}
	tr := NewTransactor(db)

	err := tr.WithTx(context.Background(), func(ctx context.Context) error {
		return tr.WithTx(ctx, func(inner context.Context) error {
			assert.Same(t, db.tx, Conn(inner, db))
			return nil
		})
	})

	require.NoError(t, err)
	assert.Equal(t, 1, db.begins)
	assert.True(t, db.tx.committed)
}

func TestWithTx_BeginError(t *testing.T) {
	db := &fakeBeginner{beginErr: errors.New("pool closed")}
	called := false

	err := NewTransactor(db).WithTx(context.Background(), func(context.Context) error {
		called = true
		return nil
	})

	assert.Error(t, err)
	assert.False(t, called)
}

func TestConn_Fallback(t *testing.T) {
	db := &fakeBeginner{}
	assert.Same(t, db, Conn(context.Background(), db))
}
