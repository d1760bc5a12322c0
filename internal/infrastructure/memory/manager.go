package memory

import (
	"context"
	"sync"

	"github.com/gimmeapp/auth-service/internal/domain/repository"
)

// Manager is the map-backed counterpart of the relational manager, meant
// for tests and local runs without a database. Writes are applied as they
// happen; its units of work track only the finalized flag, so Rollback does
// not undo anything.
type Manager struct {
	store    *store
	users    *UserRepository
	delivery *DeliveryRepository
}

func NewManager() *Manager {
	s := newStore()
	return &Manager{
		store:    s,
		users:    &UserRepository{store: s},
		delivery: &DeliveryRepository{store: s},
	}
}

var _ repository.Manager = (*Manager)(nil)

func (m *Manager) Users() repository.UserRepository { return m.users }

func (m *Manager) Delivery() repository.DeliveryRepository { return m.delivery }

func (m *Manager) Begin(ctx context.Context) (repository.UnitOfWork, error) {
	return &UnitOfWork{}, nil
}

// UnitOfWork mirrors the transactional contract without transactional
// storage: Commit and Rollback consume it, later calls are no-ops, and
// repositories bound to a finalized unit of work fail with ErrTxDone.
type UnitOfWork struct {
	mu   sync.Mutex
	done bool
}

var _ repository.UnitOfWork = (*UnitOfWork)(nil)

func (u *UnitOfWork) Commit(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.done = true
	return nil
}

func (u *UnitOfWork) Rollback(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.done = true
	return nil
}

func (u *UnitOfWork) active() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return !u.done
}
