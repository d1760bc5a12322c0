package repository

import "context"

// UnitOfWork is one open transaction scope. Commit and Rollback finalize it;
// both are safe to call more than once, every call after the first is a
// no-op. Callers should `defer uow.Rollback(ctx)` right after Begin so the
// underlying transaction is released on every early-return path.
//
// Operations issued through repositories bound to the same unit of work are
// serialized by its internal lock; independent units of work interleave
// freely with isolation left to the backend.
type UnitOfWork interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Manager resolves repositories and opens units of work for one backend.
// The accessors are compile-time wiring: unlike a runtime type registry
// there is no "capability not registered" failure mode, a manager always
// serves every repository it was constructed with.
type Manager interface {
	Users() UserRepository
	Delivery() DeliveryRepository

	// Begin opens a new transaction scope. For the in-memory backend this is
	// a no-op marker; repository mutations there are individually safe and
	// not atomically grouped.
	Begin(ctx context.Context) (UnitOfWork, error)
}
