package postgres

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/gimmeapp/auth-service/internal/domain/repository"
)

// UnitOfWork wraps one open pgx transaction. The mutex serializes every use
// of the transaction, including finalization, so repositories bound to the
// same unit of work can be shared across goroutines of one request without
// racing on the tx handle.
//
// Commit and Rollback consume the handle; later calls are no-ops, which
// makes `defer uow.Rollback(ctx)` safe after a successful Commit.
type UnitOfWork struct {
	mu sync.Mutex
	tx pgx.Tx
}

var _ repository.UnitOfWork = (*UnitOfWork)(nil)

// run executes fn against the live transaction, failing with ErrTxDone once
// the unit of work has been finalized.
func (u *UnitOfWork) run(ctx context.Context, fn func(q querier) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.tx == nil {
		return repository.ErrTxDone
	}
	return fn(u.tx)
}

func (u *UnitOfWork) Commit(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.tx == nil {
		return nil
	}
	tx := u.tx
	u.tx = nil
	if err := tx.Commit(ctx); err != nil {
		return repository.NewStorageError("uow.Commit", err)
	}
	return nil
}

func (u *UnitOfWork) Rollback(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.tx == nil {
		return nil
	}
	tx := u.tx
	u.tx = nil
	if err := tx.Rollback(ctx); err != nil {
		return repository.NewStorageError("uow.Rollback", err)
	}
	return nil
}
