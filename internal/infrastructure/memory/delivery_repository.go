package memory

import (
	"context"

	"github.com/gimmeapp/auth-service/internal/domain/entity"
	"github.com/gimmeapp/auth-service/internal/domain/repository"
)

type DeliveryRepository struct {
	store *store
	uow   *UnitOfWork
}

var _ repository.DeliveryRepository = (*DeliveryRepository)(nil)

func (r *DeliveryRepository) WithUnitOfWork(uow repository.UnitOfWork) (repository.DeliveryRepository, bool) {
	mu, ok := uow.(*UnitOfWork)
	if !ok {
		return nil, false
	}
	return &DeliveryRepository{store: r.store, uow: mu}, true
}

func (r *DeliveryRepository) find(match func(d entity.DeliveryData) bool) (*entity.DeliveryData, error) {
	if r.uow != nil && !r.uow.active() {
		return nil, repository.ErrTxDone
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, d := range r.store.deliveries {
		if match(d) {
			out := d
			return &out, nil
		}
	}
	return nil, nil
}

func (r *DeliveryRepository) FindByID(ctx context.Context, id int64) (*entity.DeliveryData, error) {
	return r.find(func(d entity.DeliveryData) bool { return d.ID == id })
}

func (r *DeliveryRepository) FindByUserID(ctx context.Context, userID int64) (*entity.DeliveryData, error) {
	return r.find(func(d entity.DeliveryData) bool { return d.UserID == userID })
}
