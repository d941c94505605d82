package postgresrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/amrelsaid4/Restaurant/internal/service/models/customer"
	"github.com/jmoiron/sqlx"
)

var ErrCustomerNotFound = errors.New("customer not found")

// CustomerDal represents customer data access layer model.
type CustomerDal struct {
	Id          int64      `db:"id"`
	UserId      int64      `db:"user_id"`
	Phone       string     `db:"phone"`
	Address     string     `db:"address"`
	DateOfBirth *time.Time `db:"date_of_birth"`
	CreatedAt   time.Time  `db:"created_at"`
}

func (c *CustomerDal) ToModel() *customer.Customer {
	return &customer.Customer{
		ID:          c.Id,
		UserID:      c.UserId,
		Phone:       c.Phone,
		Address:     c.Address,
		DateOfBirth: c.DateOfBirth,
		CreatedAt:   c.CreatedAt,
	}
}

type PostgresCustomerRepository struct {
	conn sqlx.ExtContext
}

func NewPostgresCustomerRepository(conn sqlx.ExtContext) *PostgresCustomerRepository {
	return &PostgresCustomerRepository{
		conn: conn,
	}
}

var customerColumns = []string{"id", "user_id", "phone", "address", "date_of_birth", "created_at"}

func (r *PostgresCustomerRepository) getBy(ctx context.Context, pred sq.Eq) (*customer.Customer, error) {
	query, args, err := sq.Select(customerColumns...).
		From("customers").
		Where(pred).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build customer query: %w", err)
	}

	var dal CustomerDal
	if err := sqlx.GetContext(ctx, r.conn, &dal, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}

		return nil, fmt.Errorf("failed to query customer: %w", err)
	}

	return dal.ToModel(), nil
}

// GetByID retrieves a customer by primary key.
func (r *PostgresCustomerRepository) GetByID(ctx context.Context, id int64) (*customer.Customer, error) {
	return r.getBy(ctx, sq.Eq{"id": id})
}

// GetByUserID retrieves the customer linked to a user account.
func (r *PostgresCustomerRepository) GetByUserID(ctx context.Context, userID int64) (*customer.Customer, error) {
	return r.getBy(ctx, sq.Eq{"user_id": userID})
}

// GetOrCreate inserts a customer for the user unless one exists, then
// returns the stored row. The user_id unique constraint makes this safe
// under concurrent first-order races.
func (r *PostgresCustomerRepository) GetOrCreate(ctx context.Context, c customer.Customer) (*customer.Customer, error) {
	query, args, err := sq.Insert("customers").
		Columns("user_id", "phone", "address", "date_of_birth", "created_at").
		Values(c.UserID, c.Phone, c.Address, c.DateOfBirth, time.Now()).
		Suffix("ON CONFLICT (user_id) DO NOTHING").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build customer upsert: %w", err)
	}

	if _, err := r.conn.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to upsert customer: %w", err)
	}

	return r.GetByUserID(ctx, c.UserID)
}
