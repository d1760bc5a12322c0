package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gimmeapp/auth-service/internal/domain/repository"
)

// querier is the subset of pgx shared by *pgxpool.Pool and pgx.Tx; every
// query in this package is written against it so the same statement runs on
// a bare pool or inside a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// conn binds a repository to either the shared pool or one open unit of
// work. All repository methods dispatch through run/inTx; keeping the
// branch in one place guarantees no method silently bypasses an open
// transaction.
type conn struct {
	pool *pgxpool.Pool
	uow  *UnitOfWork
}

func (c conn) run(ctx context.Context, fn func(q querier) error) error {
	if c.uow != nil {
		return c.uow.run(ctx, fn)
	}
	return fn(c.pool)
}

// inTx runs fn transactionally: inside the bound unit of work when there is
// one, otherwise inside a fresh transaction opened on the pool and
// finalized here. Participating in a caller's unit of work never nests a
// second transaction.
func (c conn) inTx(ctx context.Context, op string, fn func(q querier) error) error {
	if c.uow != nil {
		return c.uow.run(ctx, fn)
	}
	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return repository.NewStorageError(op, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return repository.NewStorageError(op, err)
	}
	return nil
}

const uniqueViolation = "23505"

// wrapErr maps a pgx failure to the repository error taxonomy. Unique
// constraint violations stay StorageErrors but also match
// repository.ErrConflict so callers can turn them into a conflict response
// without importing pgx.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return repository.NewStorageError(op, fmt.Errorf("%w: %s", repository.ErrConflict, pgErr.Error()))
	}
	return repository.NewStorageError(op, err)
}
