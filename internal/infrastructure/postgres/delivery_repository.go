package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gimmeapp/auth-service/internal/domain/entity"
	"github.com/gimmeapp/auth-service/internal/domain/repository"
)

const deliveryColumns = `id, user_id, recipient_name, phone_number, zip_code, address, detail_address, entrance_password, shipping_memo, created_at, updated_at`

type DeliveryRepository struct {
	conn conn
}

func NewDeliveryRepository(pool *pgxpool.Pool) *DeliveryRepository {
	return &DeliveryRepository{conn: conn{pool: pool}}
}

var _ repository.DeliveryRepository = (*DeliveryRepository)(nil)

func (r *DeliveryRepository) WithUnitOfWork(uow repository.UnitOfWork) (repository.DeliveryRepository, bool) {
	pu, ok := uow.(*UnitOfWork)
	if !ok {
		return nil, false
	}
	return &DeliveryRepository{conn: conn{uow: pu}}, true
}

func scanDelivery(row pgx.Row) (*entity.DeliveryData, error) {
	var d entity.DeliveryData
	err := row.Scan(
		&d.ID,
		&d.UserID,
		&d.RecipientName,
		&d.PhoneNumber,
		&d.ZipCode,
		&d.Address,
		&d.DetailAddress,
		&d.EntrancePassword,
		&d.ShippingMemo,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DeliveryRepository) findDelivery(ctx context.Context, op, where string, arg any) (*entity.DeliveryData, error) {
	q := `SELECT ` + deliveryColumns + ` FROM user_delivery_data WHERE ` + where + ` LIMIT 1`
	var d *entity.DeliveryData
	err := r.conn.run(ctx, func(db querier) error {
		var err error
		d, err = scanDelivery(db.QueryRow(ctx, q, arg))
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return d, nil
}

func (r *DeliveryRepository) FindByID(ctx context.Context, id int64) (*entity.DeliveryData, error) {
	return r.findDelivery(ctx, "delivery.FindByID", "id = $1", id)
}

func (r *DeliveryRepository) FindByUserID(ctx context.Context, userID int64) (*entity.DeliveryData, error) {
	return r.findDelivery(ctx, "delivery.FindByUserID", "user_id = $1", userID)
}
