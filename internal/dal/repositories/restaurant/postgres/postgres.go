package postgresrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/amrelsaid4/Restaurant/internal/service/models/restaurant"
	"github.com/jmoiron/sqlx"
)

var ErrRestaurantNotFound = errors.New("restaurant not found")

// RestaurantDal represents restaurant data access layer model.
type RestaurantDal struct {
	Id          int64  `db:"id"`
	Name        string `db:"name"`
	Address     string `db:"address"`
	Phone       string `db:"phone"`
	Email       string `db:"email"`
	OpeningTime string `db:"opening_time"`
	ClosingTime string `db:"closing_time"`
	IsActive    bool   `db:"is_active"`
	Description string `db:"description"`
	LogoUrl     string `db:"logo_url"`
}

func (d *RestaurantDal) ToModel() *restaurant.Restaurant {
	return &restaurant.Restaurant{
		ID:          d.Id,
		Name:        d.Name,
		Address:     d.Address,
		Phone:       d.Phone,
		Email:       d.Email,
		OpeningTime: d.OpeningTime,
		ClosingTime: d.ClosingTime,
		IsActive:    d.IsActive,
		Description: d.Description,
		LogoURL:     d.LogoUrl,
	}
}

type PostgresRestaurantRepository struct {
	conn sqlx.ExtContext
}

func NewPostgresRestaurantRepository(conn sqlx.ExtContext) *PostgresRestaurantRepository {
	return &PostgresRestaurantRepository{
		conn: conn,
	}
}

// GetActive retrieves the first active restaurant profile.
func (r *PostgresRestaurantRepository) GetActive(ctx context.Context) (*restaurant.Restaurant, error) {
	query, args, err := sq.Select(
		"id", "name", "address", "phone", "email",
		"opening_time", "closing_time", "is_active", "description", "logo_url",
	).
		From("restaurants").
		Where(sq.Eq{"is_active": true}).
		OrderBy("id").
		Limit(1).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build restaurant query: %w", err)
	}

	var dal RestaurantDal
	if err := sqlx.GetContext(ctx, r.conn, &dal, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRestaurantNotFound
		}

		return nil, fmt.Errorf("failed to query restaurant: %w", err)
	}

	return dal.ToModel(), nil
}
