package uow

import (
	"context"

	iorder "github.com/amrelsaid4/Restaurant/internal/dal/interfaces/order"
	iorderitem "github.com/amrelsaid4/Restaurant/internal/dal/interfaces/orderitem"
	ioutbox "github.com/amrelsaid4/Restaurant/internal/dal/interfaces/outbox"
	"github.com/amrelsaid4/Restaurant/internal/dal/postgres"
	orderrepo "github.com/amrelsaid4/Restaurant/internal/dal/repositories/order/postgres"
	orderitemrepo "github.com/amrelsaid4/Restaurant/internal/dal/repositories/orderitem/postgres"
	outboxrepo "github.com/amrelsaid4/Restaurant/internal/dal/repositories/outbox/postgres"

	"github.com/jmoiron/sqlx"
)

// unitOfWork scopes the order, order item and outbox repositories to one
// transaction so reconciliation can persist an order, its items and the
// broker event atomically.
type unitOfWork struct {
	db            *sqlx.DB
	tx            *sqlx.Tx
	orderRepo     iorder.PostgresRepository
	orderItemRepo iorderitem.PostgresRepository
	outboxRepo    ioutbox.Repository
}

func (u *unitOfWork) OrderRepository() iorder.PostgresRepository {
	return u.orderRepo
}

func (u *unitOfWork) OrderItemRepository() iorderitem.PostgresRepository {
	return u.orderItemRepo
}

func (u *unitOfWork) OutboxRepository() ioutbox.Repository {
	return u.outboxRepo
}

func NewUnitOfWork(db *postgres.Client) *unitOfWork {
	return &unitOfWork{
		db:            db.DB(),
		orderRepo:     orderrepo.NewPostgresOrderRepository(db.DB()),
		orderItemRepo: orderitemrepo.NewPostgresOrderItemRepository(db.DB()),
		outboxRepo:    outboxrepo.NewOutboxRepository(db.DB()),
	}
}

func (u *unitOfWork) Begin(ctx context.Context) error {
	tx, err := u.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	u.tx = tx
	u.orderRepo = orderrepo.NewPostgresOrderRepository(tx)
	u.orderItemRepo = orderitemrepo.NewPostgresOrderItemRepository(tx)
	u.outboxRepo = outboxrepo.NewOutboxRepository(tx)

	return nil
}

func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return nil
	}
	return u.tx.Commit()
}

func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}
	return u.tx.Rollback()
}
