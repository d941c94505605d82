package iorder

import (
	"context"

	"github.com/amrelsaid4/Restaurant/internal/service/models/order"
)

type PostgresRepository interface {
	InsertIfAbsent(ctx context.Context, o order.Order) (*order.Order, bool, error)
	GetByPaymentRef(ctx context.Context, ref string) (*order.Order, error)
	GetByID(ctx context.Context, id int64) (*order.Order, error)
	Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error)
	UpdateStatus(ctx context.Context, id int64, status order.Status) error
}
