package postgresrepo

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// StatusCount is one row of the orders-by-status breakdown.
type StatusCount struct {
	Status string `db:"status" json:"status"`
	Count  int64  `db:"count" json:"count"`
}

// TopDish is one row of the top-dishes-by-quantity breakdown.
type TopDish struct {
	DishName     string `db:"dish_name" json:"dish_name"`
	TotalOrdered int64  `db:"total_ordered" json:"total_ordered"`
}

// PostgresStatsRepository runs the aggregate queries behind the admin
// dashboard.
type PostgresStatsRepository struct {
	conn sqlx.ExtContext
}

func NewPostgresStatsRepository(conn sqlx.ExtContext) *PostgresStatsRepository {
	return &PostgresStatsRepository{
		conn: conn,
	}
}

func (r *PostgresStatsRepository) count(ctx context.Context, builder sq.SelectBuilder) (int64, error) {
	query, args, err := builder.PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var count int64
	if err := sqlx.GetContext(ctx, r.conn, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to run count query: %w", err)
	}

	return count, nil
}

// CountOrders returns the total number of orders, optionally filtered by status.
func (r *PostgresStatsRepository) CountOrders(ctx context.Context, status string) (int64, error) {
	builder := sq.Select("COUNT(*)").From("orders")
	if status != "" {
		builder = builder.Where(sq.Eq{"status": status})
	}

	return r.count(ctx, builder)
}

// CountOrdersSince returns the number of orders placed after the given time.
func (r *PostgresStatsRepository) CountOrdersSince(ctx context.Context, since time.Time) (int64, error) {
	return r.count(ctx, sq.Select("COUNT(*)").From("orders").Where(sq.GtOrEq{"order_date": since}))
}

// CountCustomers returns the total number of customers.
func (r *PostgresStatsRepository) CountCustomers(ctx context.Context) (int64, error) {
	return r.count(ctx, sq.Select("COUNT(*)").From("customers"))
}

// CountCustomersWithOrders returns how many customers placed at least one order.
func (r *PostgresStatsRepository) CountCustomersWithOrders(ctx context.Context) (int64, error) {
	return r.count(ctx, sq.Select("COUNT(DISTINCT customer_id)").From("orders"))
}

// CountDishes returns dish counts, optionally restricted by a flag column.
func (r *PostgresStatsRepository) CountDishes(ctx context.Context, flag string) (int64, error) {
	builder := sq.Select("COUNT(*)").From("dishes")
	if flag != "" {
		builder = builder.Where(sq.Eq{flag: true})
	}

	return r.count(ctx, builder)
}

// CountCategories returns the total number of categories.
func (r *PostgresStatsRepository) CountCategories(ctx context.Context) (int64, error) {
	return r.count(ctx, sq.Select("COUNT(*)").From("categories"))
}

// PaidRevenueCents sums paid order totals, optionally restricted to orders
// placed after since.
func (r *PostgresStatsRepository) PaidRevenueCents(ctx context.Context, since *time.Time) (int64, error) {
	builder := sq.Select("COALESCE(SUM(total_cents), 0)").
		From("orders").
		Where(sq.Eq{"payment_status": "paid"})
	if since != nil {
		builder = builder.Where(sq.GtOrEq{"order_date": *since})
	}

	return r.count(ctx, builder)
}

// OrdersByStatus returns the per-status order counts.
func (r *PostgresStatsRepository) OrdersByStatus(ctx context.Context) ([]StatusCount, error) {
	query, args, err := sq.Select("status", "COUNT(*) AS count").
		From("orders").
		GroupBy("status").
		OrderBy("count DESC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build status breakdown query: %w", err)
	}

	var result []StatusCount
	if err := sqlx.SelectContext(ctx, r.conn, &result, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query status breakdown: %w", err)
	}

	return result, nil
}

// TopDishes returns the dishes with the highest ordered quantity.
func (r *PostgresStatsRepository) TopDishes(ctx context.Context, limit int) ([]TopDish, error) {
	query, args, err := sq.Select("dish_name", "SUM(quantity) AS total_ordered").
		From("order_items").
		GroupBy("dish_name").
		OrderBy("total_ordered DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build top dishes query: %w", err)
	}

	var result []TopDish
	if err := sqlx.SelectContext(ctx, r.conn, &result, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query top dishes: %w", err)
	}

	return result, nil
}

// AverageRating returns the mean star rating across all dish ratings.
func (r *PostgresStatsRepository) AverageRating(ctx context.Context) (float64, error) {
	query, args, err := sq.Select("COALESCE(AVG(rating), 0)").
		From("dish_ratings").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build average rating query: %w", err)
	}

	var avg float64
	if err := sqlx.GetContext(ctx, r.conn, &avg, query, args...); err != nil {
		return 0, fmt.Errorf("failed to query average rating: %w", err)
	}

	return avg, nil
}
