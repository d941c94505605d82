package iorderitem

import (
	"context"

	"github.com/amrelsaid4/Restaurant/internal/service/models/orderitem"
)

type PostgresRepository interface {
	BulkInsert(ctx context.Context, items []orderitem.OrderItem) ([]orderitem.OrderItem, error)
	QueryByOrderIds(ctx context.Context, orderIds []int64) ([]orderitem.OrderItem, error)
}
