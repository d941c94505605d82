package postgresrepo

import (
	"context"
	"fmt"

	"github.com/amrelsaid4/Restaurant/internal/service/models/money"
	"github.com/amrelsaid4/Restaurant/internal/service/models/orderitem"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// OrderItemDal represents order item data access layer model.
type OrderItemDal struct {
	Id                  int64  `db:"id"`
	OrderId             int64  `db:"order_id"`
	DishId              int64  `db:"dish_id"`
	DishName            string `db:"dish_name"`
	Quantity            int    `db:"quantity"`
	PriceCents          int64  `db:"price_cents"`
	PriceCurrency       string `db:"price_currency"`
	SpecialInstructions string `db:"special_instructions"`
}

func (i *OrderItemDal) ToModel() (*orderitem.OrderItem, error) {
	cur, err := money.ParseCurrency(i.PriceCurrency)
	if err != nil {
		return nil, err
	}

	return &orderitem.OrderItem{
		ID:                  i.Id,
		OrderID:             i.OrderId,
		DishID:              i.DishId,
		DishName:            i.DishName,
		Quantity:            i.Quantity,
		Price:               money.FromCents(i.PriceCents),
		PriceCurrency:       cur,
		SpecialInstructions: i.SpecialInstructions,
	}, nil
}

type PostgresOrderItemRepository struct {
	conn sqlx.ExtContext
}

func NewPostgresOrderItemRepository(conn sqlx.ExtContext) *PostgresOrderItemRepository {
	return &PostgresOrderItemRepository{
		conn: conn,
	}
}

// BulkInsert inserts multiple order items and returns them with IDs.
func (r *PostgresOrderItemRepository) BulkInsert(ctx context.Context, items []orderitem.OrderItem) ([]orderitem.OrderItem, error) {
	if len(items) == 0 {
		return []orderitem.OrderItem{}, nil
	}

	query := `
		INSERT INTO order_items (
			order_id,
			dish_id,
			dish_name,
			quantity,
			price_cents,
			price_currency,
			special_instructions
		)
		SELECT
			order_id,
			dish_id,
			dish_name,
			quantity,
			price_cents,
			price_currency,
			special_instructions
		FROM unnest($1::bigint[], $2::bigint[], $3::text[], $4::int[], $5::bigint[], $6::text[], $7::text[])
		AS t(order_id, dish_id, dish_name, quantity, price_cents, price_currency, special_instructions)
		RETURNING
			id,
			order_id,
			dish_id,
			dish_name,
			quantity,
			price_cents,
			price_currency,
			special_instructions
	`

	orderIds := make([]int64, len(items))
	dishIds := make([]int64, len(items))
	dishNames := make([]string, len(items))
	quantities := make([]int32, len(items))
	priceCents := make([]int64, len(items))
	priceCurrencies := make([]string, len(items))
	instructions := make([]string, len(items))

	for i, item := range items {
		orderIds[i] = item.OrderID
		dishIds[i] = item.DishID
		dishNames[i] = item.DishName
		quantities[i] = int32(item.Quantity)
		priceCents[i] = item.Price.Cents()
		priceCurrencies[i] = item.PriceCurrency.String()
		instructions[i] = item.SpecialInstructions
	}

	rows, err := r.conn.QueryContext(ctx, query,
		pq.Array(orderIds),
		pq.Array(dishIds),
		pq.Array(dishNames),
		pq.Array(quantities),
		pq.Array(priceCents),
		pq.Array(priceCurrencies),
		pq.Array(instructions))
	if err != nil {
		return nil, fmt.Errorf("failed to bulk insert order items: %w", err)
	}
	defer rows.Close()

	var result []orderitem.OrderItem
	for rows.Next() {
		var dal OrderItemDal
		if err := rows.Scan(
			&dal.Id,
			&dal.OrderId,
			&dal.DishId,
			&dal.DishName,
			&dal.Quantity,
			&dal.PriceCents,
			&dal.PriceCurrency,
			&dal.SpecialInstructions,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		model, err := dal.ToModel()
		if err != nil {
			return nil, fmt.Errorf("failed to convert order item dal to model: %w", err)
		}
		result = append(result, *model)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// QueryByOrderIds retrieves the items for a set of orders.
func (r *PostgresOrderItemRepository) QueryByOrderIds(ctx context.Context, orderIds []int64) ([]orderitem.OrderItem, error) {
	if len(orderIds) == 0 {
		return []orderitem.OrderItem{}, nil
	}

	query := `
		SELECT
			id,
			order_id,
			dish_id,
			dish_name,
			quantity,
			price_cents,
			price_currency,
			special_instructions
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id
	`

	rows, err := r.conn.QueryContext(ctx, query, pq.Array(orderIds))
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var result []orderitem.OrderItem
	for rows.Next() {
		var dal OrderItemDal
		if err := rows.Scan(
			&dal.Id,
			&dal.OrderId,
			&dal.DishId,
			&dal.DishName,
			&dal.Quantity,
			&dal.PriceCents,
			&dal.PriceCurrency,
			&dal.SpecialInstructions,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		model, err := dal.ToModel()
		if err != nil {
			return nil, fmt.Errorf("failed to convert order item dal to model: %w", err)
		}
		result = append(result, *model)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}
