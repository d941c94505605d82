package postgresrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/amrelsaid4/Restaurant/internal/service/models/money"
	"github.com/amrelsaid4/Restaurant/internal/service/models/order"
	"github.com/amrelsaid4/Restaurant/internal/service/models/orderitem"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderDal represents order data access layer model.
type OrderDal struct {
	Id                  int64          `db:"id"`
	CustomerId          int64          `db:"customer_id"`
	Status              string         `db:"status"`
	PaymentStatus       string         `db:"payment_status"`
	TotalCents          int64          `db:"total_cents"`
	TotalCurrency       string         `db:"total_currency"`
	DeliveryAddress     string         `db:"delivery_address"`
	SpecialInstructions string         `db:"special_instructions"`
	PaymentRef          sql.NullString `db:"payment_ref"`
	OrderDate           time.Time      `db:"order_date"`
	UpdatedAt           time.Time      `db:"updated_at"`
}

// ToModel converts OrderDal to service layer Order model.
func (o *OrderDal) ToModel() (*order.Order, error) {
	cur, err := money.ParseCurrency(o.TotalCurrency)
	if err != nil {
		return nil, err
	}
	status, err := order.ParseStatus(o.Status)
	if err != nil {
		return nil, err
	}
	paymentStatus, err := order.ParsePaymentStatus(o.PaymentStatus)
	if err != nil {
		return nil, err
	}

	return &order.Order{
		ID:                  o.Id,
		CustomerID:          o.CustomerId,
		Status:              status,
		PaymentStatus:       paymentStatus,
		TotalAmount:         money.FromCents(o.TotalCents),
		TotalCurrency:       cur,
		DeliveryAddress:     o.DeliveryAddress,
		SpecialInstructions: o.SpecialInstructions,
		PaymentRef:          o.PaymentRef.String,
		OrderDate:           o.OrderDate,
		UpdatedAt:           o.UpdatedAt,
		OrderItems:          []orderitem.OrderItem{},
	}, nil
}

type PostgresOrderRepository struct {
	conn sqlx.ExtContext
}

func NewPostgresOrderRepository(conn sqlx.ExtContext) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		conn: conn,
	}
}

const orderColumns = `
	id,
	customer_id,
	status,
	payment_status,
	total_cents,
	total_currency,
	delivery_address,
	special_instructions,
	payment_ref,
	order_date,
	updated_at
`

// InsertIfAbsent inserts the order unless one with the same payment_ref
// already exists. The unique constraint on payment_ref is what makes
// payment reconciliation idempotent under concurrent triggers. The second
// return value reports whether a row was actually inserted.
func (r *PostgresOrderRepository) InsertIfAbsent(ctx context.Context, o order.Order) (*order.Order, bool, error) {
	now := time.Now()

	query := `
		INSERT INTO orders (
			customer_id,
			status,
			payment_status,
			total_cents,
			total_currency,
			delivery_address,
			special_instructions,
			payment_ref,
			order_date,
			updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (payment_ref) DO NOTHING
		RETURNING` + orderColumns

	var paymentRef any
	if o.PaymentRef != "" {
		paymentRef = o.PaymentRef
	}

	rows, err := r.conn.QueryContext(ctx, query,
		o.CustomerID,
		string(o.Status),
		string(o.PaymentStatus),
		o.TotalAmount.Cents(),
		o.TotalCurrency.String(),
		o.DeliveryAddress,
		o.SpecialInstructions,
		paymentRef,
		now,
		now,
	)
	if err != nil {
		return nil, false, fmt.Errorf("failed to insert order: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, false, fmt.Errorf("rows iteration error: %w", err)
		}
		// Conflict: another trigger got here first.
		existing, err := r.GetByPaymentRef(ctx, o.PaymentRef)
		if err != nil {
			return nil, false, err
		}

		return existing, false, nil
	}

	var dal OrderDal
	if err := rows.Scan(
		&dal.Id,
		&dal.CustomerId,
		&dal.Status,
		&dal.PaymentStatus,
		&dal.TotalCents,
		&dal.TotalCurrency,
		&dal.DeliveryAddress,
		&dal.SpecialInstructions,
		&dal.PaymentRef,
		&dal.OrderDate,
		&dal.UpdatedAt,
	); err != nil {
		return nil, false, fmt.Errorf("failed to scan order: %w", err)
	}

	model, err := dal.ToModel()
	if err != nil {
		return nil, false, fmt.Errorf("failed to convert order dal to model: %w", err)
	}

	return model, true, nil
}

// GetByPaymentRef retrieves the order created for an external payment session.
func (r *PostgresOrderRepository) GetByPaymentRef(ctx context.Context, ref string) (*order.Order, error) {
	query := `SELECT` + orderColumns + `FROM orders WHERE payment_ref = $1`

	var dal OrderDal
	if err := sqlx.GetContext(ctx, r.conn, &dal, query, ref); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}

		return nil, fmt.Errorf("failed to query order by payment ref: %w", err)
	}

	return dal.ToModel()
}

// GetByID retrieves an order by primary key.
func (r *PostgresOrderRepository) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	query := `SELECT` + orderColumns + `FROM orders WHERE id = $1`

	var dal OrderDal
	if err := sqlx.GetContext(ctx, r.conn, &dal, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}

		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	return dal.ToModel()
}

// Query retrieves orders based on filter criteria, newest first.
func (r *PostgresOrderRepository) Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error) {
	sqlBuilder := strings.Builder{}
	sqlBuilder.WriteString(`SELECT` + orderColumns + `FROM orders`)

	args := []interface{}{}
	conditions := []string{}
	argIndex := 1

	if len(filter.Ids) > 0 {
		conditions = append(conditions, fmt.Sprintf("id = ANY($%d)", argIndex))
		args = append(args, pq.Array(filter.Ids))
		argIndex++
	}

	if len(filter.CustomerIds) > 0 {
		conditions = append(conditions, fmt.Sprintf("customer_id = ANY($%d)", argIndex))
		args = append(args, pq.Array(filter.CustomerIds))
		argIndex++
	}

	if len(conditions) > 0 {
		sqlBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}

	sqlBuilder.WriteString(" ORDER BY order_date DESC")

	if filter.Limit > 0 {
		sqlBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argIndex))
		args = append(args, filter.Limit)
		argIndex++
	}

	if filter.Offset > 0 {
		sqlBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argIndex))
		args = append(args, filter.Offset)
	}

	rows, err := r.conn.QueryContext(ctx, sqlBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var result []order.Order
	for rows.Next() {
		var dal OrderDal
		if err := rows.Scan(
			&dal.Id,
			&dal.CustomerId,
			&dal.Status,
			&dal.PaymentStatus,
			&dal.TotalCents,
			&dal.TotalCurrency,
			&dal.DeliveryAddress,
			&dal.SpecialInstructions,
			&dal.PaymentRef,
			&dal.OrderDate,
			&dal.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		model, err := dal.ToModel()
		if err != nil {
			return nil, fmt.Errorf("failed to convert order dal to model: %w", err)
		}
		result = append(result, *model)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// UpdateStatus sets a new fulfillment status on an order.
func (r *PostgresOrderRepository) UpdateStatus(ctx context.Context, id int64, status order.Status) error {
	query := `UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`

	res, err := r.conn.ExecContext(ctx, query, string(status), time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrOrderNotFound
	}

	return nil
}
