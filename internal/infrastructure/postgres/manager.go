package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gimmeapp/auth-service/internal/domain/repository"
)

// Manager hands out the relational repositories and opens units of work on
// the shared pool. One Manager serves the whole process; repositories it
// returns are safe for concurrent use.
type Manager struct {
	pool     *pgxpool.Pool
	users    *UserRepository
	delivery *DeliveryRepository
}

func NewManager(pool *pgxpool.Pool) *Manager {
	return &Manager{
		pool:     pool,
		users:    NewUserRepository(pool),
		delivery: NewDeliveryRepository(pool),
	}
}

var _ repository.Manager = (*Manager)(nil)

func (m *Manager) Users() repository.UserRepository { return m.users }

func (m *Manager) Delivery() repository.DeliveryRepository { return m.delivery }

func (m *Manager) Begin(ctx context.Context) (repository.UnitOfWork, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return nil, repository.NewStorageError("manager.Begin", err)
	}
	return &UnitOfWork{tx: tx}, nil
}
