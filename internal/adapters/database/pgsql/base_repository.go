package pgsql

import (
	"context"
	"errors"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var errReadOnly = apperrors.NewAppError(500, "write transaction requested inside a read-only snapshot", errors.New("read-only snapshot"))

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

type txKey struct{}

type txState struct {
	tx       pgx.Tx
	readOnly bool
}

func txFromContext(ctx context.Context) (txState, bool) {
	st, ok := ctx.Value(txKey{}).(txState)
	return st, ok
}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// q returns the transaction carried by ctx, or the pool when there is none.
func (r *BaseRepository) q(ctx context.Context) querier {
	if st, ok := txFromContext(ctx); ok {
		return st.tx
	}
	return r.Pool
}

// withTx runs fn inside the transaction carried by ctx, beginning one when ctx has none.
func (r *BaseRepository) withTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := txFromContext(ctx); ok {
		return fn(ctx)
	}
	return r.run(ctx, pgx.TxOptions{}, false, fn)
}

func (r *BaseRepository) run(ctx context.Context, opts pgx.TxOptions, readOnly bool, fn func(ctx context.Context) error) error {
	tx, err := r.BeginTx(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		_ = r.Rollback(ctx, tx)
	}()

	if err := fn(context.WithValue(ctx, txKey{}, txState{tx: tx, readOnly: readOnly})); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// BeginTx starts a new database transaction
func (r *BaseRepository) BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error) {
	tx, err := r.Pool.BeginTx(ctx, opts)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewAppError(500, "failed to rollback transaction", err)
	}
	return nil
}

// PgxTxManager implements TransactionManager on top of a pgx pool. The transaction
// travels in the context so repositories called from fn join it.
type PgxTxManager struct {
	BaseRepository
}

var _ portsrepo.TransactionManager = (*PgxTxManager)(nil)

func newPgxTxManager(pool *pgxpool.Pool) *PgxTxManager {
	return &PgxTxManager{BaseRepository: BaseRepository{Pool: pool}}
}

// WithinTx runs fn in a read-committed transaction, joining the one already in ctx.
func (m *PgxTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if st, ok := txFromContext(ctx); ok {
		if st.readOnly {
			return errReadOnly
		}
		return fn(ctx)
	}
	return m.run(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, false, fn)
}

// WithinSnapshot runs fn in a repeatable-read, read-only transaction so every query sees
// the same committed state.
func (m *PgxTxManager) WithinSnapshot(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := txFromContext(ctx); ok {
		return fn(ctx)
	}
	return m.run(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}, true, fn)
}
